package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testData(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i), byte(i >> 8), 'd', 'a', 't', 'a'}
	}
	return out
}

func TestVerifyAllLeaves(t *testing.T) {
	data := testData(5)
	tree := NewTree()
	for _, d := range data {
		tree.Push(d)
	}
	root := tree.Root()

	for i := range data {
		_, proof := tree.Prove(uint64(i))
		res := Verify(root, data[i], proof, uint64(i), uint64(len(data)))
		require.True(t, res.Verified, "leaf %d should verify", i)
		require.False(t, res.Overflow)
	}
}

func TestVerifyWrongRootFails(t *testing.T) {
	data5 := testData(5)
	tree5 := NewTree()
	for _, d := range data5 {
		tree5.Push(d)
	}
	_, proof := tree5.Prove(2)

	data4 := testData(4)
	tree4 := NewTree()
	for _, d := range data4 {
		tree4.Push(d)
	}
	root4 := tree4.Root()

	res := Verify(root4, data5[2], proof, 2, 5)
	require.False(t, res.Verified)
}

func TestVerifyInvalidProofIndexFails(t *testing.T) {
	data := testData(5)
	tree := NewTree()
	for _, d := range data {
		tree.Push(d)
	}
	root, proof := tree.Prove(2)

	res := Verify(root, data[2], proof, 2+15, 5)
	require.False(t, res.Verified)
}

func TestVerifyZeroLeaves(t *testing.T) {
	res := Verify(Bytes32{}, []byte("x"), nil, 0, 0)
	require.False(t, res.Verified)
}

func TestVerifySingleLeafEmptyProof(t *testing.T) {
	data := []byte("solo-leaf")
	root := LeafSum(data)

	res := Verify(root, data, nil, 0, 1)
	require.True(t, res.Verified)

	res = Verify(Bytes32{}, data, nil, 0, 1)
	require.False(t, res.Verified)
}

func TestVerifyMutationFlipsResult(t *testing.T) {
	data := testData(5)
	tree := NewTree()
	for _, d := range data {
		tree.Push(d)
	}
	root, proof := tree.Prove(2)
	require.True(t, Verify(root, data[2], proof, 2, 5).Verified)

	mutatedRoot := root
	mutatedRoot[0] ^= 0xff
	require.False(t, Verify(mutatedRoot, data[2], proof, 2, 5).Verified)

	mutatedProof := append([]Bytes32(nil), proof...)
	if len(mutatedProof) > 0 {
		mutatedProof[0][0] ^= 0xff
		require.False(t, Verify(root, data[2], mutatedProof, 2, 5).Verified)
	}

	require.False(t, Verify(root, []byte("not the datum"), proof, 2, 5).Verified)
}

func TestVerifyIndexBeyondLeavesFails(t *testing.T) {
	res := Verify(Bytes32{}, []byte("x"), []Bytes32{{}}, 10, 5)
	require.False(t, res.Verified)
}
