package vm

import (
	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
)

// CallFrame records a single call activation: the callee, the caller's
// register snapshot to restore on return, and the heap base at entry
// (spec.md §3). Frames form a last-in-first-out stack owned by the
// interpreter.
type CallFrame struct {
	To              common.ContractId
	SavedRegs       [params.VMRegisterCount]Word
	HeapBaseAtEntry Word
}

// frameStack is the interpreter's LIFO call-frame stack.
type frameStack struct {
	frames []CallFrame
}

func (s *frameStack) push(f CallFrame) { s.frames = append(s.frames, f) }

func (s *frameStack) pop() (CallFrame, bool) {
	if len(s.frames) == 0 {
		return CallFrame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

func (s *frameStack) top() (CallFrame, bool) {
	if len(s.frames) == 0 {
		return CallFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func (s *frameStack) len() int { return len(s.frames) }
