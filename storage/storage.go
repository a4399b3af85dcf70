// Package storage implements the three-tier contract/state store spec.md
// §4.4 describes: pending (this transaction's uncommitted writes),
// committed (writes from earlier transactions in the same bundle) and
// state (the backing store). Grounded on fuel-vm's src/substorage.rs
// (field-level commit merge, tombstone semantics) and on the teacher's
// StateDB interface (core/vm/interface.go) for the shape of a narrow,
// host-implemented storage contract.
package storage

import "github.com/corevm-labs/uvm/common"

// InterpreterStorage is the backing key-value store contract the
// interpreter depends on (spec.md §6). A real implementation persists
// contract bytecode, roots, storage slots and asset balances; this module
// only depends on the interface, never a concrete backend.
type InterpreterStorage interface {
	ContractBytecode(id common.ContractId) ([]byte, error)
	SetContractBytecode(id common.ContractId, code []byte) error

	ContractRoot(id common.ContractId) (common.Salt, common.Bytes32, bool, error)
	SetContractRoot(id common.ContractId, salt common.Salt, root common.Bytes32) error

	StorageSlot(id common.ContractId, key common.Bytes32) (common.Bytes32, bool, error)
	SetStorageSlot(id common.ContractId, key, value common.Bytes32) error
	RemoveStorageSlot(id common.ContractId, key common.Bytes32) error

	AssetBalance(id common.ContractId, asset common.AssetId) (Word, bool, error)
	SetAssetBalance(id common.ContractId, asset common.AssetId, amount Word) error

	BlockHeight() (uint32, error)
	BlockHash(height uint32) (common.Bytes32, error)
	Coinbase() (common.Address, error)

	// Close releases any resources held by the backing store. Symmetric
	// with the teacher's ethdb.Database-shaped backends; the core
	// interpreter never calls it, it exists so a real KV backend can
	// implement InterpreterStorage without an adapter shim.
	Close() error
}

// Word avoids an import of the vm package purely for its Word alias
// (storage must not depend on vm: the interpreter depends on storage, not
// the other way around).
type Word = uint64
