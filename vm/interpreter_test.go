package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
	"github.com/corevm-labs/uvm/txn"
)

type noopStorage struct{}

func (noopStorage) ContractBytecode(common.ContractId) ([]byte, error) { return nil, nil }
func (noopStorage) SetContractBytecode(common.ContractId, []byte) error { return nil }
func (noopStorage) ContractRoot(common.ContractId) (common.Salt, common.Bytes32, bool, error) {
	return common.Salt{}, common.Bytes32{}, false, nil
}
func (noopStorage) SetContractRoot(common.ContractId, common.Salt, common.Bytes32) error { return nil }
func (noopStorage) StorageSlot(common.ContractId, common.Bytes32) (common.Bytes32, bool, error) {
	return common.Bytes32{}, false, nil
}
func (noopStorage) SetStorageSlot(common.ContractId, common.Bytes32, common.Bytes32) error { return nil }
func (noopStorage) RemoveStorageSlot(common.ContractId, common.Bytes32) error              { return nil }
func (noopStorage) AssetBalance(common.ContractId, common.AssetId) (uint64, bool, error) {
	return 0, false, nil
}
func (noopStorage) SetAssetBalance(common.ContractId, common.AssetId, uint64) error { return nil }
func (noopStorage) BlockHeight() (uint32, error)                                    { return 0, nil }
func (noopStorage) BlockHash(uint32) (common.Bytes32, error)                        { return common.Bytes32{}, nil }
func (noopStorage) Coinbase() (common.Address, error)                               { return common.Address{}, nil }
func (noopStorage) Close() error                                                    { return nil }

func newTestInterpreter(t *testing.T, ctx Context) *Interpreter {
	t.Helper()
	tx := txn.NewScript(common.Bytes32{}, nil, nil)
	p := params.DefaultConsensusParameters()
	p.MaxRAM = 1 << 16
	return New(tx, noopStorage{}, p, txn.InitialBalances{NonRetryable: map[common.AssetId]uint64{}}, ctx)
}

func TestIncPCAdvancesBySize(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	require.NoError(t, in.incPC())
	require.Equal(t, Word(params.InstructionSize), in.registers.Get(PC))
}

func TestIncPCOverflowFails(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	in.registers.setInternal(PC, ^Word(0))
	err := in.incPC()
	require.Error(t, err)
	var rt *RuntimeError
	require.True(t, errors.As(err, &rt))
	require.Equal(t, PanicReasonArithmeticOverflow, rt.Reason)
}

func TestReserveStackEnforcesInternalSSPLEQSP(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextCall})
	in.registers.setInternal(SP, 10)

	_, err := in.reserveStack(10)
	require.NoError(t, err)

	_, err = in.reserveStack(1)
	require.Error(t, err, "internal context must not let SSP exceed SP")
}

func TestReserveStackExternalContextIgnoresSP(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	_, err := in.reserveStack(100)
	require.NoError(t, err)
}

func TestInternalContractRequiresInternalContext(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	_, err := in.internalContract()
	require.Error(t, err)
	var rt *RuntimeError
	require.True(t, errors.As(err, &rt))
	require.Equal(t, PanicReasonExpectedInternalContext, rt.Reason)
}

func TestInternalContractReadsFromFP(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextCall})
	var want common.ContractId
	want[0] = 0xab
	want[31] = 0xcd
	require.NoError(t, in.memory.WriteUnchecked(0, want[:]))
	in.registers.setInternal(FP, 0)

	got, err := in.internalContract()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestBaseAssetBalanceSubUnderflowFails(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	err := in.baseAssetBalanceSub(1)
	require.Error(t, err)
	var rt *RuntimeError
	require.True(t, errors.As(err, &rt))
	require.Equal(t, PanicReasonNotEnoughBalance, rt.Reason)
}

func TestBaseAssetBalanceSubSucceeds(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	in.balances[common.BaseAssetId] = 100
	require.NoError(t, in.baseAssetBalanceSub(40))
	require.Equal(t, uint64(60), in.balances[common.BaseAssetId])
}

func TestAppendReceiptUpdatesScriptReceiptsRoot(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	require.NoError(t, in.AppendReceipt(Receipt{Kind: ReceiptKindLog, Data: []byte("hi")}))

	script, ok := in.tx.AsScript()
	require.True(t, ok)
	require.NotEqual(t, common.Bytes32{}, script.ReceiptsRoot)

	region, err := in.memory.Read(in.consensus.TxOffset+receiptsRootOffset, 32)
	require.NoError(t, err)
	require.Equal(t, script.ReceiptsRoot[:], region)
}

func TestHandleFaultRuntimeErrorAppendsPanicReceiptAndReverts(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	in.initialBalances = txn.InitialBalances{NonRetryable: map[common.AssetId]uint64{common.BaseAssetId: 1000}}
	in.tx = txn.NewScript(common.Bytes32{}, nil, []txn.Output{{Kind: txn.OutputKindChange, AssetID: common.BaseAssetId}})

	err := in.HandleFault(PanicReasonMemoryOverflow.Err())
	require.NoError(t, err)

	receipts := in.receipts.Receipts()
	require.Len(t, receipts, 1)
	require.Equal(t, ReceiptKindPanic, receipts[0].Kind)
	require.Equal(t, PanicReasonMemoryOverflow, receipts[0].PanicReason)
	require.Equal(t, Word(1000), in.tx.Outputs()[0].Amount, "revert resets the base-asset Change output to its initial balance")
}

func TestContextGasLimitSeedsGasRegisters(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript, GasLimit: 500})
	require.Equal(t, Word(500), in.Registers().Get(RegGlobalGas))
	require.Equal(t, Word(500), in.Registers().Get(RegContextGas))
}

func TestExportedReserveStackAndIncPC(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})

	off, err := in.ReserveStack(64)
	require.NoError(t, err)
	require.Equal(t, Word(0), off)
	require.Equal(t, Word(64), in.Registers().Get(SSP))

	require.NoError(t, in.IncPC())
	require.Equal(t, Word(params.InstructionSize), in.Registers().Get(PC))
}

func TestReceiptsLogExposesAppendedReceipts(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	require.NoError(t, in.AppendReceipt(Receipt{Kind: ReceiptKindLog, Data: []byte("x")}))
	require.Len(t, in.ReceiptsLog().Receipts(), 1)
}

func TestHandleFaultBugPropagates(t *testing.T) {
	in := newTestInterpreter(t, Context{Kind: ContextScript})
	err := in.HandleFault(NewBug(BugID009, BugVariantInvalidMemoryConstraint))
	var bug *Bug
	require.True(t, errors.As(err, &bug))
}
