package storage

import "github.com/corevm-labs/uvm/common"

// Memory is a map-backed InterpreterStorage reference implementation. It is
// not meant for production use: spec.md's Non-goals name persistence as out
// of scope, and this exists only so the CLI and integration tests have a
// concrete backing store to wrap in a LayeredStorage without pulling in a
// real database driver.
type Memory struct {
	bytecode map[common.ContractId][]byte
	roots    map[common.ContractId]rootEntry
	slots    map[slotKey]common.Bytes32
	balances map[balanceKey]Word

	blockHeight uint32
	blockHashes map[uint32]common.Bytes32
	coinbase    common.Address
}

type rootEntry struct {
	salt common.Salt
	root common.Bytes32
}

type slotKey struct {
	id  common.ContractId
	key common.Bytes32
}

type balanceKey struct {
	id    common.ContractId
	asset common.AssetId
}

// NewMemory constructs an empty in-memory store at block height 0.
func NewMemory() *Memory {
	return &Memory{
		bytecode:    make(map[common.ContractId][]byte),
		roots:       make(map[common.ContractId]rootEntry),
		slots:       make(map[slotKey]common.Bytes32),
		balances:    make(map[balanceKey]Word),
		blockHashes: make(map[uint32]common.Bytes32),
	}
}

func (m *Memory) ContractBytecode(id common.ContractId) ([]byte, error) {
	code, ok := m.bytecode[id]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(code))
	copy(out, code)
	return out, nil
}

func (m *Memory) SetContractBytecode(id common.ContractId, code []byte) error {
	cp := make([]byte, len(code))
	copy(cp, code)
	m.bytecode[id] = cp
	return nil
}

func (m *Memory) ContractRoot(id common.ContractId) (common.Salt, common.Bytes32, bool, error) {
	entry, ok := m.roots[id]
	if !ok {
		return common.Salt{}, common.Bytes32{}, false, nil
	}
	return entry.salt, entry.root, true, nil
}

func (m *Memory) SetContractRoot(id common.ContractId, salt common.Salt, root common.Bytes32) error {
	m.roots[id] = rootEntry{salt: salt, root: root}
	return nil
}

func (m *Memory) StorageSlot(id common.ContractId, key common.Bytes32) (common.Bytes32, bool, error) {
	v, ok := m.slots[slotKey{id: id, key: key}]
	return v, ok, nil
}

func (m *Memory) SetStorageSlot(id common.ContractId, key, value common.Bytes32) error {
	m.slots[slotKey{id: id, key: key}] = value
	return nil
}

func (m *Memory) RemoveStorageSlot(id common.ContractId, key common.Bytes32) error {
	delete(m.slots, slotKey{id: id, key: key})
	return nil
}

func (m *Memory) AssetBalance(id common.ContractId, asset common.AssetId) (Word, bool, error) {
	v, ok := m.balances[balanceKey{id: id, asset: asset}]
	return v, ok, nil
}

func (m *Memory) SetAssetBalance(id common.ContractId, asset common.AssetId, amount Word) error {
	m.balances[balanceKey{id: id, asset: asset}] = amount
	return nil
}

func (m *Memory) BlockHeight() (uint32, error) { return m.blockHeight, nil }

func (m *Memory) BlockHash(height uint32) (common.Bytes32, error) {
	return m.blockHashes[height], nil
}

func (m *Memory) Coinbase() (common.Address, error) { return m.coinbase, nil }

// SetBlockHeight lets a CLI/test fixture advance the chain-head view this
// store reports; it has no counterpart on InterpreterStorage because real
// backends derive it from consensus, not from a setter.
func (m *Memory) SetBlockHeight(height uint32) { m.blockHeight = height }

// SetBlockHash records the hash a fixture wants BlockHash(height) to return.
func (m *Memory) SetBlockHash(height uint32, hash common.Bytes32) {
	m.blockHashes[height] = hash
}

// SetCoinbase records the address Coinbase() returns.
func (m *Memory) SetCoinbase(addr common.Address) { m.coinbase = addr }

func (m *Memory) Close() error { return nil }
