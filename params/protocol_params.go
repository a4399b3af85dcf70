// Package params holds the consensus-fixed constants the interpreter is
// built against: memory/register sizing, gas pricing and the refund
// formula. Grounded on the teacher's core-coin-go-core/params/protocol_params.go
// (a flat block of named uint64 constants), generalized from "EVM opcode
// gas table" to "register-VM consensus parameters".
package params

import "errors"

// Register file and memory sizing. These are consensus constants: changing
// them changes the chain, so they travel with ConsensusParameters rather
// than being compiled-in literals scattered through the vm package.
const (
	// VMRegisterCount is the size of the interpreter's register file.
	VMRegisterCount = 64

	// DefaultMaxRAM is the default VM memory capacity in bytes (64 MiB),
	// used when a ConsensusParameters value doesn't override it.
	DefaultMaxRAM = 1 << 26

	// MemMaxAccessSize bounds the length argument accepted by a single
	// memory-touching opcode (keccak256/sha256 hash length, etc.), independent
	// of the overall VM capacity.
	MemMaxAccessSize = 1 << 24

	// InstructionSize is the fixed width, in bytes, of one decoded
	// instruction; PC always advances by this amount on success.
	InstructionSize = 4
)

// Gas cost constants. Mirrors the shape of the teacher's protocol_params.go
// (EnergyQuickStep/EnergyFastStep-style named steps) but priced for the
// memory/storage/crypto operations this module actually owns; ALU and
// call-opcode pricing lives with the (out of scope) decoder/dispatcher.
const (
	GasMemoryWrite  uint64 = 3 // per byte copied into VM memory by a checked write
	GasStorageRead  uint64 = 200
	GasStorageWrite uint64 = 5000
	GasEcrecover    uint64 = 3500
	GasKeccak256    uint64 = 30
	GasSha256       uint64 = 30
	GasPerHashWord  uint64 = 6 // per 32-byte word hashed, added to GasKeccak256/GasSha256
	GasReceipt      uint64 = 100
)

// ConsensusParameters bundles every network-fixed value the interpreter
// consults. It is constructed once (by the host / CLI) and treated as
// immutable for the lifetime of a transaction, per spec.md's "no global
// mutable state" design note.
type ConsensusParameters struct {
	MaxRAM        uint64 `toml:"max_ram"`
	TxOffset      uint64 `toml:"tx_offset"`
	GasPriceFloor uint64 `toml:"gas_price_floor"`
}

// DefaultConsensusParameters returns the parameter set used by tests and by
// the CLI when no TOML override is supplied.
func DefaultConsensusParameters() ConsensusParameters {
	return ConsensusParameters{
		MaxRAM:        DefaultMaxRAM,
		TxOffset:      0,
		GasPriceFloor: 1,
	}
}

// ErrArithmeticOverflow is returned by GasRefund when the refund
// computation would overflow a Word; it is surfaced to callers as
// CheckError::ArithmeticOverflow per spec.md §4.5.
var ErrArithmeticOverflow = errors.New("params: arithmetic overflow computing gas refund")

// GasRefund computes the refund owed for remainingGas units of unused gas
// at the given price, per spec.md §4.5 / §8: gas_refund = refund_value(...).
// It mirrors TransactionFee::gas_refund_value: a plain checked
// multiplication, failing closed on overflow rather than wrapping.
func GasRefund(remainingGas, price uint64) (uint64, error) {
	if price == 0 || remainingGas == 0 {
		return 0, nil
	}
	refund := remainingGas * price
	if refund/price != remainingGas {
		return 0, ErrArithmeticOverflow
	}
	return refund, nil
}
