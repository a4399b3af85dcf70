package vm

// Flags bit field inside the FLAG register (spec.md §3/§6).
const (
	FlagUnsafeMath Word = 1 << 0
	FlagWrapping   Word = 1 << 1

	flagKnownMask = FlagUnsafeMath | FlagWrapping
)

// SetFlag validates a is a combination of known flag bits and, if so,
// writes it into the FLAG register and advances PC. Unknown bits raise
// PanicReasonErrorFlag without mutating FLAG or PC (spec.md §3: "Writing
// FLAG rejects unknown bits with a recoverable fault").
func (in *Interpreter) SetFlag(a Word) error {
	if a&^flagKnownMask != 0 {
		return PanicReasonErrorFlag.Err()
	}
	in.registers.setInternal(FLAG, a)
	return in.incPC()
}

// IsWrapping reports whether arithmetic overflow should be masked rather
// than faulting.
func (in *Interpreter) IsWrapping() bool {
	return in.registers.Get(FLAG)&FlagWrapping != 0
}

// IsUnsafeMath reports whether division by zero should yield zero rather
// than faulting.
func (in *Interpreter) IsUnsafeMath() bool {
	return in.registers.Get(FLAG)&FlagUnsafeMath != 0
}
