package txn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
)

func TestReplaceVariableOutput(t *testing.T) {
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindVariable, Amount: 0},
		{Kind: OutputKindCoin, Amount: 5},
	})

	require.NoError(t, tx.ReplaceVariableOutput(0, Output{Kind: OutputKindVariable, Amount: 10}))
	require.Equal(t, Word(10), tx.Outputs()[0].Amount)

	err := tx.ReplaceVariableOutput(1, Output{Kind: OutputKindVariable, Amount: 10})
	require.True(t, errors.Is(err, ErrOutputNotFound))

	err = tx.ReplaceVariableOutput(0, Output{Kind: OutputKindCoin, Amount: 10})
	require.True(t, errors.Is(err, ErrExpectedOutputVariable))
}

func TestFindOutputContract(t *testing.T) {
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindCoin},
		{Kind: OutputKindContract, InputIndex: 3},
	})

	idx, out, ok := tx.FindOutputContract(3)
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, uint8(3), out.InputIndex)

	_, _, ok = tx.FindOutputContract(9)
	require.False(t, ok)
}

func TestUpdateOutputsRevertBaseAssetChange(t *testing.T) {
	asset := common.BaseAssetId
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindChange, AssetID: asset},
	})
	initial := InitialBalances{NonRetryable: map[common.AssetId]Word{asset: 1000}}

	p := params.DefaultConsensusParameters()
	require.NoError(t, tx.UpdateOutputs(p, true, 50, 1, initial, RuntimeBalances{}))
	require.Equal(t, Word(1050), tx.Outputs()[0].Amount)
}

func TestUpdateOutputsRevertNonBaseAssetChangeIgnoresBalances(t *testing.T) {
	var asset common.AssetId
	asset[0] = 7
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindChange, AssetID: asset},
	})
	initial := InitialBalances{NonRetryable: map[common.AssetId]Word{asset: 42}}
	balances := RuntimeBalances{asset: 999}

	p := params.DefaultConsensusParameters()
	require.NoError(t, tx.UpdateOutputs(p, true, 50, 1, initial, balances))
	require.Equal(t, Word(42), tx.Outputs()[0].Amount)
}

func TestUpdateOutputsNoRevertVariableUnchanged(t *testing.T) {
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindVariable, Amount: 30},
	})
	p := params.DefaultConsensusParameters()
	require.NoError(t, tx.UpdateOutputs(p, false, 0, 1, InitialBalances{}, RuntimeBalances{}))
	require.Equal(t, Word(30), tx.Outputs()[0].Amount, "Variable outputs are only zeroed on revert")
}

func TestValidateOutputsRejectsDuplicateChangeAsset(t *testing.T) {
	asset := common.BaseAssetId
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindChange, AssetID: asset},
		{Kind: OutputKindChange, AssetID: asset},
	})
	require.True(t, errors.Is(tx.ValidateOutputs(), ErrDuplicateChangeAsset))
}

func TestValidateOutputsAcceptsDistinctChangeAssets(t *testing.T) {
	var other common.AssetId
	other[0] = 1
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindChange, AssetID: common.BaseAssetId},
		{Kind: OutputKindChange, AssetID: other},
	})
	require.NoError(t, tx.ValidateOutputs())
}

func TestUpdateOutputsRevertVariableZeroed(t *testing.T) {
	tx := NewScript(common.Bytes32{}, nil, []Output{
		{Kind: OutputKindVariable, Amount: 30},
	})
	p := params.DefaultConsensusParameters()
	require.NoError(t, tx.UpdateOutputs(p, true, 0, 1, InitialBalances{}, RuntimeBalances{}))
	require.Equal(t, Word(0), tx.Outputs()[0].Amount)
}
