package vm

import "github.com/corevm-labs/uvm/params"

// GasCosts prices the memory/storage/crypto operations this module owns.
// ALU and call-opcode pricing live with the (out of scope) decoder, so this
// table only covers the opcodes implemented here. Grounded on the shape of
// the teacher's EnergyQuickStep-style named constants
// (core-coin-go-core/core/vm/energy_table.go), sourced from params so a
// ConsensusParameters change can, in principle, reprice them per network.
type GasCosts struct {
	MemoryWritePerByte Word
	StorageRead        Word
	StorageWrite       Word
	Ecrecover          Word
	Keccak256          Word
	Sha256             Word
	PerHashWord        Word
	Receipt            Word
}

// DefaultGasCosts returns the fixed pricing table sourced from
// params.protocol_params.go's gas constants.
func DefaultGasCosts() GasCosts {
	return GasCosts{
		MemoryWritePerByte: params.GasMemoryWrite,
		StorageRead:        params.GasStorageRead,
		StorageWrite:       params.GasStorageWrite,
		Ecrecover:          params.GasEcrecover,
		Keccak256:          params.GasKeccak256,
		Sha256:             params.GasSha256,
		PerHashWord:        params.GasPerHashWord,
		Receipt:            params.GasReceipt,
	}
}

// HashCost prices a hash of length bytes as a fixed base cost plus a
// per-32-byte-word charge, the same shape as the teacher's
// Sha256PerWordEnergy/Sha256BaseEnergy pair in protocol_params.go.
func (g GasCosts) HashCost(base, length Word) Word {
	words := (length + 31) / 32
	return base + g.PerHashWord*words
}

// consumeGas debits amount from the current frame's context-gas register,
// saturating at zero and reporting whether the full amount was available.
// Grounded on spec.md §5: "Long-running execution is bounded by the gas
// counter; when gas is exhausted the interpreter enters a terminal revert
// state."
func (in *Interpreter) consumeGas(amount Word) bool {
	cur := in.registers.Get(RegContextGas)
	if amount > cur {
		in.registers.setInternal(RegContextGas, 0)
		return false
	}
	in.registers.setInternal(RegContextGas, cur-amount)
	return true
}
