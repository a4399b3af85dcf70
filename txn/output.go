// Package txn implements the executable-transaction contract spec.md §4.5
// describes: the tagged Script/Create transaction variants, their outputs,
// and the post-execution output-reconciliation pass. Grounded on the
// teacher's tagged-sum style for EIP-2718 typed transactions
// (core-coin-go-core/core/types) generalized from an account-based model to
// output lists, and on fuel-vm's src/transaction.rs / src/interpreter/executors.
package txn

import (
	"encoding/binary"
	"errors"

	"github.com/corevm-labs/uvm/common"
)

// OutputKind tags the five output variants spec.md §4.5 enumerates.
type OutputKind uint8

const (
	OutputKindCoin OutputKind = iota
	OutputKindContract
	OutputKindChange
	OutputKindVariable
	OutputKindContractCreated
)

// Output is represented as a single tagged struct rather than an interface
// hierarchy (spec.md §9: "implement as a tagged sum with variant-dispatched
// operations, not an open inheritance hierarchy"). Only the fields relevant
// to Kind are meaningful; the rest are zero.
type Output struct {
	Kind OutputKind

	// Coin, Change, Variable
	To      common.Address
	Amount  Word
	AssetID common.AssetId

	// Contract (StateRoot is also used by ContractCreated)
	InputIndex  uint8
	BalanceRoot common.Bytes32
	StateRoot   common.Bytes32

	// ContractCreated
	ContractID common.ContractId
}

// Word is the VM's native register width, aliased locally so this package
// does not need to import vm purely for it (vm depends on txn, not vice
// versa).
type Word = common.Word

var (
	// ErrOutputIndexOutOfRange is returned by OutputToMem when idx names a
	// slot the transaction does not have, or when buf is shorter than one
	// encoded output.
	ErrOutputIndexOutOfRange = errors.New("txn: output index out of range")
	// ErrExpectedOutputVariable surfaces spec.md §4.5's ExpectedOutputVariable
	// panic reason: replace_variable_output was called with a non-Variable
	// replacement.
	ErrExpectedOutputVariable = errors.New("txn: expected a Variable output")
	// ErrOutputNotFound surfaces OutputNotFound: the named slot is missing, or
	// is not a zero-amount Variable eligible for replacement.
	ErrOutputNotFound = errors.New("txn: output not found")
)

// outputEncodedLen is the fixed serialized width of one Output record: a
// kind tag byte, a 32-byte address/contract-id field, an 8-byte amount,
// and three further 32-byte fields — generous enough to hold any variant's
// payload at a byte offset reproducible by a real serializer.
const outputEncodedLen = 1 + 32 + 8 + 32 + 32 + 32

// encodeOutput writes o's wire representation into buf, which must be at
// least outputEncodedLen bytes, returning the number of bytes written.
func encodeOutput(o Output, buf []byte) int {
	buf[0] = byte(o.Kind)
	off := 1
	switch o.Kind {
	case OutputKindCoin, OutputKindChange, OutputKindVariable:
		copy(buf[off:off+32], o.To[:])
		off += 32
		binary.BigEndian.PutUint64(buf[off:off+8], o.Amount)
		off += 8
		copy(buf[off:off+32], o.AssetID[:])
		off += 32
	case OutputKindContract:
		buf[off] = o.InputIndex
		off += 32
		copy(buf[off:off+32], o.BalanceRoot[:])
		off += 32
		copy(buf[off:off+32], o.StateRoot[:])
		off += 32
	case OutputKindContractCreated:
		copy(buf[off:off+32], o.ContractID[:])
		off += 32
		copy(buf[off:off+32], o.StateRoot[:])
		off += 32
	}
	return off
}
