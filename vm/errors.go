// Grounded on core-coin-go-core/core/vm/errors.go's idiom of a flat list of
// named sentinel errors, extended with the typed Bug/RuntimeError split
// spec.md §7 requires: recoverable panics vs. non-recoverable bugs.
package vm

import (
	"fmt"

	"github.com/corevm-labs/uvm/common"
)

// PanicReason enumerates the recoverable faults an opcode can raise. A
// recoverable panic surfaces as a Panic receipt followed by transaction
// revert; it is never fatal to the host process.
type PanicReason uint8

const (
	PanicReasonUnknown PanicReason = iota
	PanicReasonMemoryOverflow
	PanicReasonArithmeticOverflow
	PanicReasonErrorFlag
	PanicReasonExpectedInternalContext
	PanicReasonExpectedOutputVariable
	PanicReasonOutputNotFound
	PanicReasonNotEnoughBalance
	PanicReasonTransactionValidity
	PanicReasonNonZeroMessageOutputRecipient
	PanicReasonInvalidMemoryConstraint
)

func (p PanicReason) String() string {
	switch p {
	case PanicReasonMemoryOverflow:
		return "MemoryOverflow"
	case PanicReasonArithmeticOverflow:
		return "ArithmeticOverflow"
	case PanicReasonErrorFlag:
		return "ErrorFlag"
	case PanicReasonExpectedInternalContext:
		return "ExpectedInternalContext"
	case PanicReasonExpectedOutputVariable:
		return "ExpectedOutputVariable"
	case PanicReasonOutputNotFound:
		return "OutputNotFound"
	case PanicReasonNotEnoughBalance:
		return "NotEnoughBalance"
	case PanicReasonTransactionValidity:
		return "TransactionValidity"
	case PanicReasonNonZeroMessageOutputRecipient:
		return "NonZeroMessageOutputRecipient"
	case PanicReasonInvalidMemoryConstraint:
		return "InvalidMemoryConstraint"
	default:
		return "Unknown"
	}
}

// RuntimeError wraps a PanicReason as an `error`, carrying the optional
// contract id active when the fault occurred (spec.md §4.6's panic-context
// slot). It satisfies the standard error interface so opcode code can
// return it like any other Go error.
type RuntimeError struct {
	Reason     PanicReason
	ContractID *common.ContractId
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("panic: %s", e.Reason)
}

// NewRuntimeError builds a RuntimeError with no attached contract context;
// callers that have a live panic-context slot should set ContractID
// afterwards (see Interpreter.panicContext).
func NewRuntimeError(reason PanicReason) *RuntimeError {
	return &RuntimeError{Reason: reason}
}

// Err wraps a plain PanicReason in a *RuntimeError, so opcode bodies can
// write `return PanicReasonFoo.Err()`.
func (p PanicReason) Err() *RuntimeError { return NewRuntimeError(p) }

// BugID stably identifies a class of implementation defect, surfaced
// through Bug rather than a recoverable panic. Bugs abort the VM: they mean
// an internal invariant was violated, not that the input was bad.
type BugID string

const (
	BugID001 BugID = "ID001" // stack/heap ownership invariant violated
	BugID009 BugID = "ID009" // memory-range constraint exceeds VM capacity
)

// BugVariant names the specific invariant a Bug reports.
type BugVariant string

const (
	BugVariantInvalidMemoryConstraint BugVariant = "InvalidMemoryConstraint"
	BugVariantOwnershipViolation      BugVariant = "OwnershipViolation"
)

// Bug is a non-recoverable implementation defect: a structural invariant
// (e.g. a caller-supplied constraint whose end exceeds VM capacity) was
// violated. Bugs are reported, not panicked-and-reverted: the caller is
// expected to abort the VM entirely.
type Bug struct {
	ID      BugID
	Variant BugVariant
}

func (b *Bug) Error() string {
	return fmt.Sprintf("bug %s: %s", b.ID, b.Variant)
}

// NewBug constructs a Bug value satisfying the error interface.
func NewBug(id BugID, variant BugVariant) *Bug {
	return &Bug{ID: id, Variant: variant}
}
