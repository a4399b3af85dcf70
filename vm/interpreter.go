// Package vm implements the interpreter core spec.md §4.6 describes: the
// register file, checked memory, ownership rules, call-frame stack,
// receipts log and the handful of primitive operations
// (reserve/push-stack, flag control, internal-contract lookup, balance
// debit, cryptographic opcodes) every real opcode dispatcher is built on.
// The opcode decoder, ALU and call/return flow themselves are out of
// scope: a host supplies a decoded asm.InstructionStream and drives these
// primitives directly.
//
// Grounded on the teacher's core/vm/interpreter.go for the shape of an
// Interpreter struct owning its collaborators by value/interface rather
// than through global state, and on fuel-vm's src/interpreter.rs for the
// operations themselves.
package vm

import (
	"errors"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
	"github.com/corevm-labs/uvm/storage"
	"github.com/corevm-labs/uvm/txn"
	"github.com/corevm-labs/uvm/xlog"
)

// ErrOutOfGas signals that a gas-metered operation could not be fully
// charged; the caller is expected to route this into the revert path
// (spec.md §5).
var ErrOutOfGas = errors.New("vm: out of gas")

// Interpreter owns every piece of per-transaction mutable state: registers,
// memory, the call-frame stack, the receipts log, the transaction value,
// initial balances, storage, execution context, runtime balances, gas
// pricing, consensus parameters, and the panic-context slot (spec.md
// §4.6).
type Interpreter struct {
	registers *Registers
	memory    *Memory
	frames    frameStack
	receipts  *ReceiptsCtx

	tx              txn.ExecutableTransaction
	initialBalances txn.InitialBalances
	storage         storage.InterpreterStorage

	context  Context
	balances txn.RuntimeBalances

	gasCosts  GasCosts
	consensus params.ConsensusParameters

	// panicContext is the panic-context slot. Nothing in this package sets
	// or reads it: HandleFault takes the Panic receipt's contract id from
	// the RuntimeError's ContractID, not from this field.
	panicContext *common.ContractId

	txMemRegion MemRange

	log xlog.Logger
}

// New constructs an Interpreter for a single transaction execution. Memory
// is allocated at consensus.MaxRAM capacity; SP/SSP start at zero, HP
// starts at capacity, matching an empty stack and an empty heap (spec.md
// §3's SSP ≤ SP ≤ HP ≤ capacity invariant).
func New(
	tx txn.ExecutableTransaction,
	store storage.InterpreterStorage,
	consensus params.ConsensusParameters,
	initial txn.InitialBalances,
	ctx Context,
) *Interpreter {
	capacity := consensus.MaxRAM
	if capacity == 0 {
		capacity = params.DefaultMaxRAM
	}

	regs := NewRegisters(params.VMRegisterCount)
	regs.setInternal(HP, capacity)
	regs.setInternal(RegGlobalGas, ctx.GasLimit)
	regs.setInternal(RegContextGas, ctx.GasLimit)

	txRegion, _ := NewMemRange(0, consensus.TxOffset, capacity)

	balances := make(txn.RuntimeBalances, len(initial.NonRetryable))
	for asset, amount := range initial.NonRetryable {
		balances[asset] = amount
	}

	return &Interpreter{
		registers:       regs,
		memory:          NewMemory(capacity),
		receipts:        NewReceiptsCtx(),
		tx:              tx,
		initialBalances: initial,
		storage:         store,
		context:         ctx,
		balances:        balances,
		gasCosts:        DefaultGasCosts(),
		consensus:       consensus,
		txMemRegion:     txRegion,
		log:             xlog.Root().New("pkg", "vm"),
	}
}

// Registers exposes the interpreter's register file to callers driving
// opcode dispatch from outside this package.
func (in *Interpreter) Registers() *Registers { return in.registers }

// Memory exposes the interpreter's VM memory.
func (in *Interpreter) Memory() *Memory { return in.memory }

// Context returns the active execution context.
func (in *Interpreter) Context() Context { return in.context }

// Balances exposes the live per-asset runtime balance table.
func (in *Interpreter) Balances() txn.RuntimeBalances { return in.balances }

// Storage exposes the backing layered-storage contract.
func (in *Interpreter) Storage() storage.InterpreterStorage { return in.storage }

// ReceiptsLog exposes the interpreter's receipts context to callers driving
// execution from outside this package.
func (in *Interpreter) ReceiptsLog() *ReceiptsCtx { return in.receipts }

// IncPC advances PC by one instruction width on behalf of a host driving
// opcode dispatch; it delegates to incPC.
func (in *Interpreter) IncPC() error { return in.incPC() }

// ReserveStack grows the stack by length bytes on behalf of a host driving
// opcode dispatch (e.g. a PUSH/ALLOC-style opcode's frame setup); it
// delegates to reserveStack.
func (in *Interpreter) ReserveStack(length Word) (Word, error) { return in.reserveStack(length) }

// ownershipRegisters snapshots the registers a write-permission check
// needs (spec.md §3).
func (in *Interpreter) ownershipRegisters() OwnershipRegisters {
	return OwnershipRegisters{
		SP:          in.registers.Get(SP),
		SSP:         in.registers.Get(SSP),
		HP:          in.registers.Get(HP),
		PrevHP:      in.heapBaseAtEntry(),
		Context:     in.context,
		TxMemRegion: in.txMemRegion,
	}
}

// heapBaseAtEntry returns the enclosing frame's heap base, or the memory
// capacity (an empty owned heap range) when there is no enclosing frame.
func (in *Interpreter) heapBaseAtEntry() Word {
	if f, ok := in.frames.top(); ok {
		return f.HeapBaseAtEntry
	}
	return in.memory.Capacity()
}

// incPC advances PC by one instruction width, checked (spec.md §4.6). A
// failure here is ArithmeticOverflow.
func (in *Interpreter) incPC() error {
	pc, overflow := addOverflows(in.registers.Get(PC), params.InstructionSize)
	if overflow {
		return PanicReasonArithmeticOverflow.Err()
	}
	in.registers.setInternal(PC, pc)
	return nil
}

// reserveStack grows SSP by length, checked, additionally enforcing
// SSP <= SP when the context is internal (spec.md §4.6). Returns the prior
// SSP as the write target.
func (in *Interpreter) reserveStack(length Word) (Word, error) {
	old := in.registers.Get(SSP)
	next, overflow := addOverflows(old, length)
	if overflow {
		return 0, PanicReasonArithmeticOverflow.Err()
	}
	if in.context.IsInternal() && next > in.registers.Get(SP) {
		return 0, PanicReasonMemoryOverflow.Err()
	}
	if next > in.registers.Get(HP) {
		return 0, PanicReasonMemoryOverflow.Err()
	}
	in.registers.setInternal(SSP, next)
	in.memory.UpdateAllocations(next, in.registers.Get(HP))
	return old, nil
}

// pushStack reserves len(data) bytes of stack and writes data there
// unchecked, the composition spec.md §4.6 names push_stack.
func (in *Interpreter) pushStack(data []byte) (Word, error) {
	off, err := in.reserveStack(Word(len(data)))
	if err != nil {
		return 0, err
	}
	if err := in.memory.WriteUnchecked(off, data); err != nil {
		return 0, err
	}
	return off, nil
}

// internalContract reads the current contract id out of memory at address
// FP (spec.md §4.6). It fails ExpectedInternalContext outside a Call
// context.
func (in *Interpreter) internalContract() (common.ContractId, error) {
	if !in.context.IsInternal() {
		return common.ContractId{}, PanicReasonExpectedInternalContext.Err()
	}
	fp := in.registers.Get(FP)
	r, err := NewConstLenRange(fp, common.ContractIdLen, in.memory.Capacity())
	if err != nil {
		return common.ContractId{}, err
	}
	return r.ReadContractID(in.memory), nil
}

// baseAssetBalanceSub subtracts value from the base-asset runtime balance,
// failing NotEnoughBalance on underflow (spec.md §4.6).
func (in *Interpreter) baseAssetBalanceSub(value Word) error {
	return in.externalAssetBalanceSub(common.BaseAssetId, value)
}

// externalAssetBalanceSub subtracts value from asset's runtime balance,
// failing NotEnoughBalance on underflow.
func (in *Interpreter) externalAssetBalanceSub(asset common.AssetId, value Word) error {
	if err := in.balances.Sub(asset, value); err != nil {
		return PanicReasonNotEnoughBalance.Err()
	}
	return nil
}

// pushFrame activates a new call frame, snapshotting the caller's registers
// and the heap base it owns at entry (spec.md §3's Call frame record).
func (in *Interpreter) pushFrame(to common.ContractId) {
	var saved [params.VMRegisterCount]Word
	copy(saved[:], in.registers.words)
	in.frames.push(CallFrame{
		To:              to,
		SavedRegs:       saved,
		HeapBaseAtEntry: in.registers.Get(HP),
	})
}

// popFrame restores the caller's register snapshot, if any frame is
// active.
func (in *Interpreter) popFrame() (CallFrame, bool) {
	f, ok := in.frames.pop()
	if !ok {
		return CallFrame{}, false
	}
	copy(in.registers.words, f.SavedRegs[:])
	return f, true
}

// outOfGas reports gas exhaustion to a caller; it does not itself trigger
// the revert path (Finalize/HandleFault does).
func (in *Interpreter) outOfGas() error { return ErrOutOfGas }

func contractIDOrZero(id *common.ContractId) common.ContractId {
	if id == nil {
		return common.ContractId{}
	}
	return *id
}

// HandleFault converts a recoverable panic into a Panic receipt and runs
// the revert-path output reconciliation, per spec.md §7. Bugs and
// gas-exhaustion are not panics: Bugs propagate unchanged (the caller must
// abort the VM), and ErrOutOfGas is treated as an implicit revert with zero
// remaining gas (spec.md §5).
func (in *Interpreter) HandleFault(err error) error {
	var bug *Bug
	if errors.As(err, &bug) {
		in.log.Crit("interpreter bug", "err", bug)
		return bug
	}

	var rt *RuntimeError
	if errors.As(err, &rt) {
		in.log.Warn("recoverable panic", "reason", rt.Reason, "contract", contractIDOrZero(rt.ContractID))
		_ = in.AppendReceipt(Receipt{
			Kind:        ReceiptKindPanic,
			PanicReason: rt.Reason,
			ContractID:  contractIDOrZero(rt.ContractID),
		})
		return in.Finalize(true, 0)
	}

	if errors.Is(err, ErrOutOfGas) {
		in.log.Debug("out of gas, reverting")
		return in.Finalize(true, 0)
	}

	return err
}

// Finalize runs the post-execution output reconciliation pass
// (spec.md §4.5) with the caller-supplied remainingGas; it does not read
// the context-gas register itself (HandleFault passes zero on a fault).
func (in *Interpreter) Finalize(revert bool, remainingGas Word) error {
	in.log.Debug("finalizing execution", "revert", revert, "remainingGas", remainingGas)
	price := in.consensus.GasPriceFloor
	if err := in.tx.UpdateOutputs(in.consensus, revert, remainingGas, price, in.initialBalances, in.balances); err != nil {
		return PanicReasonArithmeticOverflow.Err()
	}
	return nil
}
