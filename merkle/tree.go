package merkle

// Tree is a minimal append-only binary Merkle tree used by tests and by
// the CLI demo to produce (root, proof) pairs that Verify can check. It is
// not part of the spec's CORE (the spec only requires the verifier), but a
// builder is needed to exercise Verify against real trees rather than
// hand-computed fixtures.
//
// The structure is the canonical unbalanced binary Merkle tree Verify's
// walk assumes: recursively split the leaf range at the largest power of
// two strictly less than its length, so a subtree is "real" (and
// contributes one proof element) exactly when Verify's stable-subtree
// check says it is.
type Tree struct {
	leaves []Bytes32
}

// NewTree constructs an empty tree.
func NewTree() *Tree { return &Tree{} }

// Push appends a leaf's raw data (hashed internally with LeafSum).
func (t *Tree) Push(data []byte) {
	t.leaves = append(t.leaves, LeafSum(data))
}

// NumLeaves returns the number of leaves pushed so far.
func (t *Tree) NumLeaves() uint64 { return uint64(len(t.leaves)) }

// Root computes the tree's current Merkle root. The root of zero leaves is
// the zero digest.
func (t *Tree) Root() Bytes32 {
	return build(t.leaves)
}

// Prove returns the ordered proof set (leaf level up) for the leaf at
// index, alongside the current root.
func (t *Tree) Prove(index uint64) (Bytes32, []Bytes32) {
	return t.Root(), prove(t.leaves, int(index))
}

func largestPowerOfTwoBelow(n int) int {
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}

func build(hashes []Bytes32) Bytes32 {
	switch len(hashes) {
	case 0:
		return Bytes32{}
	case 1:
		return hashes[0]
	}
	k := largestPowerOfTwoBelow(len(hashes))
	return NodeSum(build(hashes[:k]), build(hashes[k:]))
}

func prove(hashes []Bytes32, index int) []Bytes32 {
	if len(hashes) <= 1 {
		return nil
	}
	k := largestPowerOfTwoBelow(len(hashes))
	if index < k {
		proof := prove(hashes[:k], index)
		return append(proof, build(hashes[k:]))
	}
	proof := prove(hashes[k:], index-k)
	return append(proof, build(hashes[:k]))
}
