package vm

import "github.com/corevm-labs/uvm/common"

// Word is the VM's native 64-bit register width (spec.md §3).
type Word = common.Word

// Well-known register indices. The full register file has
// params.VMRegisterCount entries; the rest are general-purpose and owned
// entirely by the (out of scope) ALU/opcode dispatcher.
const (
	RegZero = iota // always reads as zero, writes are rejected
	RegOne         // always reads as one, writes are rejected
	RegOverflow
	RegProgramCounter
	RegInstructionStart // start-of-frame instruction pointer
	RegStackPointer
	RegStackStartPointer
	RegFramePointer
	RegHeapPointer
	RegError
	RegGlobalGas
	RegContextGas
	RegReturnValue
	RegReturnValueHi
	RegFlags

	// RegWritableFrom is the first register index instructions are allowed
	// to write; everything below is read-only from instruction code
	// (spec.md §3).
	RegWritableFrom = RegFlags + 1
)

// Short aliases matching spec.md's register names.
const (
	PC   = RegProgramCounter
	IS   = RegInstructionStart
	SP   = RegStackPointer
	SSP  = RegStackStartPointer
	FP   = RegFramePointer
	HP   = RegHeapPointer
	ERR  = RegError
	FLAG = RegFlags
)

// Registers is the interpreter's fixed register file.
type Registers struct {
	count int
	words []Word
}

// NewRegisters allocates a zeroed register file of the given size.
func NewRegisters(count int) *Registers {
	r := &Registers{count: count, words: make([]Word, count)}
	r.words[RegOne] = 1
	return r
}

// Get reads register i.
func (r *Registers) Get(i int) Word { return r.words[i] }

// Set writes register i, rejecting writes to the read-only prologue
// (spec.md §3: "the first several registers are read-only from
// instructions").
func (r *Registers) Set(i int, v Word) error {
	if i < RegWritableFrom {
		return PanicReasonErrorFlag.Err()
	}
	r.words[i] = v
	return nil
}

// setInternal bypasses the read-only check; only the interpreter itself
// (frame setup, PC advancement, gas accounting) may call it.
func (r *Registers) setInternal(i int, v Word) { r.words[i] = v }

// CheckInvariant verifies spec.md §3/§8's core ordering invariant:
// 0 <= SSP <= SP <= HP <= capacity.
func (r *Registers) CheckInvariant(capacity Word) bool {
	ssp, sp, hp := r.Get(SSP), r.Get(SP), r.Get(HP)
	return ssp <= sp && sp <= hp && hp <= capacity
}
