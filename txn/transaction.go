package txn

import (
	"errors"

	mapset "github.com/deckarep/golang-set"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
)

// Kind discriminates the two transaction variants the core understands.
type Kind uint8

const (
	KindScript Kind = iota
	KindCreate
)

// ScriptData is the payload carried by a Script transaction: executable
// bytecode and the receipts-root field the interpreter updates on every
// receipt append (spec.md §4.6).
type ScriptData struct {
	Bytecode     []byte
	ReceiptsRoot common.Bytes32
}

// CreateData is the payload carried by a Create transaction: the bytecode
// witness deployed as the new contract's code.
type CreateData struct {
	Witness []byte
	Salt    common.Salt
}

// ExecutableTransaction is the contract the interpreter depends on
// (spec.md §4.5/§6): narrowing accessors over the Script/Create tagged sum,
// output maintenance, and post-execution reconciliation. The interpreter
// never assumes a concrete Transaction type, only this interface.
type ExecutableTransaction interface {
	TransactionType() Word
	AsScript() (*ScriptData, bool)
	AsScriptMut() (*ScriptData, bool)
	AsCreate() (*CreateData, bool)
	AsCreateMut() (*CreateData, bool)
	Outputs() []Output
	OutputToMem(idx int, buf []byte) (int, error)
	ReplaceVariableOutput(idx int, out Output) error
	FindOutputContract(inputIndex uint8) (int, Output, bool)
	UpdateOutputs(p params.ConsensusParameters, revert bool, remainingGas, price Word, initial InitialBalances, balances RuntimeBalances) error
	TxID() common.Bytes32
}

// Transaction is the concrete ExecutableTransaction: a tagged sum over
// Script and Create, plus the shared output list both variants carry
// (spec.md §9: tagged sum with variant-dispatched operations, not an open
// inheritance hierarchy).
type Transaction struct {
	kind    Kind
	script  *ScriptData
	create  *CreateData
	outputs []Output
	txID    common.Bytes32
}

// NewScript constructs a Script transaction.
func NewScript(txID common.Bytes32, bytecode []byte, outputs []Output) *Transaction {
	return &Transaction{
		kind:    KindScript,
		script:  &ScriptData{Bytecode: bytecode},
		outputs: outputs,
		txID:    txID,
	}
}

// NewCreate constructs a Create transaction.
func NewCreate(txID common.Bytes32, witness []byte, salt common.Salt, outputs []Output) *Transaction {
	return &Transaction{
		kind:    KindCreate,
		create:  &CreateData{Witness: witness, Salt: salt},
		outputs: outputs,
		txID:    txID,
	}
}

// TransactionType returns the variant discriminator (spec.md §4.5).
func (t *Transaction) TransactionType() Word { return Word(t.kind) }

// AsScript narrows to the Script payload, if this is a Script transaction.
func (t *Transaction) AsScript() (*ScriptData, bool) { return t.script, t.kind == KindScript }

// AsScriptMut is the mutable counterpart of AsScript.
func (t *Transaction) AsScriptMut() (*ScriptData, bool) { return t.script, t.kind == KindScript }

// AsCreate narrows to the Create payload, if this is a Create transaction.
func (t *Transaction) AsCreate() (*CreateData, bool) { return t.create, t.kind == KindCreate }

// AsCreateMut is the mutable counterpart of AsCreate.
func (t *Transaction) AsCreateMut() (*CreateData, bool) { return t.create, t.kind == KindCreate }

// Outputs returns the transaction's output list.
func (t *Transaction) Outputs() []Output { return t.outputs }

// TxID returns the transaction's id, the first 32 bytes of its memory
// region (spec.md §6).
func (t *Transaction) TxID() common.Bytes32 { return t.txID }

// OutputToMem serializes the idx-th output into buf, returning the number
// of bytes written. Fails ErrOutputIndexOutOfRange if idx names a slot the
// transaction does not have (spec.md §4.5).
func (t *Transaction) OutputToMem(idx int, buf []byte) (int, error) {
	if idx < 0 || idx >= len(t.outputs) {
		return 0, ErrOutputIndexOutOfRange
	}
	if len(buf) < outputEncodedLen {
		return 0, ErrOutputIndexOutOfRange
	}
	return encodeOutput(t.outputs[idx], buf), nil
}

// ReplaceVariableOutput replaces a zero-amount Variable output with a new
// Variable output (spec.md §4.5). Rejects with ErrExpectedOutputVariable if
// out is not a Variable; rejects with ErrOutputNotFound if the slot is
// missing or not a zero-amount Variable.
func (t *Transaction) ReplaceVariableOutput(idx int, out Output) error {
	if out.Kind != OutputKindVariable {
		return ErrExpectedOutputVariable
	}
	if idx < 0 || idx >= len(t.outputs) {
		return ErrOutputNotFound
	}
	existing := t.outputs[idx]
	if existing.Kind != OutputKindVariable || existing.Amount != 0 {
		return ErrOutputNotFound
	}
	t.outputs[idx] = out
	return nil
}

// FindOutputContract finds the Contract output whose InputIndex equals
// inputIndex (spec.md §4.5).
func (t *Transaction) FindOutputContract(inputIndex uint8) (int, Output, bool) {
	for i, o := range t.outputs {
		if o.Kind == OutputKindContract && o.InputIndex == inputIndex {
			return i, o, true
		}
	}
	return 0, Output{}, false
}

// ErrArithmeticOverflow surfaces spec.md §4.5's ArithmeticOverflow panic
// reason: the gas refund or a Change-output checked add overflowed.
var ErrArithmeticOverflow = errors.New("txn: arithmetic overflow")

// ErrDuplicateChangeAsset is returned by ValidateOutputs when more than one
// Change output names the same asset id: UpdateOutputs would then have two
// slots racing to both be "the" refund for that asset.
var ErrDuplicateChangeAsset = errors.New("txn: duplicate Change output asset id")

// ValidateOutputs checks the structural invariant UpdateOutputs assumes: at
// most one Change output per asset id. Transaction construction does not
// enforce this itself (outputs are caller-supplied), so a host should run
// this once before handing the transaction to the interpreter.
func (t *Transaction) ValidateOutputs() error {
	seen := mapset.NewThreadUnsafeSet()
	for _, o := range t.outputs {
		if o.Kind != OutputKindChange {
			continue
		}
		if seen.Contains(o.AssetID) {
			return ErrDuplicateChangeAsset
		}
		seen.Add(o.AssetID)
	}
	return nil
}

func checkedAdd(a, b Word) (Word, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// UpdateOutputs performs spec.md §4.5's post-execution reconciliation pass:
// compute the gas refund, then snap Change/Variable outputs to their
// revert-safe or post-execution values.
func (t *Transaction) UpdateOutputs(p params.ConsensusParameters, revert bool, remainingGas, price Word, initial InitialBalances, balances RuntimeBalances) error {
	gasRefund, err := params.GasRefund(remainingGas, price)
	if err != nil {
		return ErrArithmeticOverflow
	}

	for i, o := range t.outputs {
		switch o.Kind {
		case OutputKindChange:
			var amount Word
			if revert {
				if o.AssetID == common.BaseAssetId {
					amount, err = checkedAdd(initial.NonRetryable[o.AssetID], gasRefund)
					if err != nil {
						return err
					}
				} else {
					amount = initial.NonRetryable[o.AssetID]
				}
			} else {
				if o.AssetID == common.BaseAssetId {
					amount, err = checkedAdd(balances.Get(o.AssetID), gasRefund)
					if err != nil {
						return err
					}
				} else {
					amount = balances.Get(o.AssetID)
				}
			}
			o.Amount = amount
			t.outputs[i] = o
		case OutputKindVariable:
			if revert {
				o.Amount = 0
				t.outputs[i] = o
			}
		}
	}
	return nil
}
