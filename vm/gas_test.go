package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
	"github.com/corevm-labs/uvm/txn"
)

func TestGasCostsHashCost(t *testing.T) {
	g := DefaultGasCosts()
	require.Equal(t, g.Keccak256, g.HashCost(g.Keccak256, 0))
	require.Equal(t, g.Keccak256+g.PerHashWord, g.HashCost(g.Keccak256, 1))
	require.Equal(t, g.Keccak256+g.PerHashWord, g.HashCost(g.Keccak256, 32))
	require.Equal(t, g.Keccak256+2*g.PerHashWord, g.HashCost(g.Keccak256, 33))
}

func TestConsumeGasSaturatesAtZero(t *testing.T) {
	tx := txn.NewScript(common.Bytes32{}, nil, nil)
	p := params.DefaultConsensusParameters()
	p.MaxRAM = 1 << 16
	in := New(tx, noopStorage{}, p, txn.InitialBalances{}, Context{Kind: ContextScript})
	in.registers.setInternal(RegContextGas, 10)

	require.False(t, in.consumeGas(11))
	require.Equal(t, Word(0), in.registers.Get(RegContextGas))
}

func TestConsumeGasDebitsExactly(t *testing.T) {
	tx := txn.NewScript(common.Bytes32{}, nil, nil)
	p := params.DefaultConsensusParameters()
	p.MaxRAM = 1 << 16
	in := New(tx, noopStorage{}, p, txn.InitialBalances{}, Context{Kind: ContextScript})
	in.registers.setInternal(RegContextGas, 100)

	require.True(t, in.consumeGas(40))
	require.Equal(t, Word(60), in.registers.Get(RegContextGas))
}
