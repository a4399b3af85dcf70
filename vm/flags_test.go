package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
	"github.com/corevm-labs/uvm/txn"
)

func TestSetFlagRejectsUnknownBits(t *testing.T) {
	tx := txn.NewScript(common.Bytes32{}, nil, nil)
	p := params.DefaultConsensusParameters()
	p.MaxRAM = 1 << 16
	in := New(tx, noopStorage{}, p, txn.InitialBalances{}, Context{Kind: ContextScript})

	err := in.SetFlag(1 << 2)
	require.Error(t, err)
	require.Equal(t, Word(0), in.registers.Get(FLAG), "a rejected flag write must not mutate FLAG")
}

func TestSetFlagAcceptsKnownBitsAndAdvancesPC(t *testing.T) {
	tx := txn.NewScript(common.Bytes32{}, nil, nil)
	p := params.DefaultConsensusParameters()
	p.MaxRAM = 1 << 16
	in := New(tx, noopStorage{}, p, txn.InitialBalances{}, Context{Kind: ContextScript})

	require.NoError(t, in.SetFlag(FlagWrapping|FlagUnsafeMath))
	require.True(t, in.IsWrapping())
	require.True(t, in.IsUnsafeMath())
	require.Equal(t, Word(params.InstructionSize), in.registers.Get(PC))
}
