// Package asm defines the shape of the decoded instruction stream the
// interpreter drives (spec.md §1: "the full opcode decoder... [is] treated
// as an external collaborator, specified only at [its] interface"). Nothing
// in this module decodes raw bytecode into instructions; a host supplies an
// InstructionStream implementation.
package asm

// Instruction is a single decoded VM instruction: an opcode plus up to four
// register operands and an immediate, wide enough to express the register
// and memory opcodes the interpreter core dispatches (reserve/push stack,
// memory ops, crypto ops, flag/branch control). ALU and call/return opcode
// semantics are the decoder/dispatcher's concern, not this module's.
type Instruction struct {
	Opcode   uint8
	Ra       uint8
	Rb       uint8
	Rc       uint8
	Rd       uint8
	Immediate uint32
}

// InstructionStream is the external collaborator that turns a transaction's
// bytecode into a sequence of Instruction values. The interpreter only
// calls Fetch, at the address held in the PC register.
type InstructionStream interface {
	// Fetch decodes the instruction at byte offset pc. It returns an error
	// if pc does not address a valid instruction boundary.
	Fetch(pc uint64) (Instruction, error)
}
