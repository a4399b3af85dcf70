// Package merkle implements the binary Merkle inclusion-proof verifier
// spec.md §4.3 describes, a direct port of fuel-merkle's
// src/binary/verify.rs algorithm: domain-separated leaf/node hashing with
// the same "stable subtree, then unbalanced remainder" walk.
package merkle

import "golang.org/x/crypto/sha3"

const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

// Bytes32 is a 32-byte digest: a Merkle root, a leaf/node hash, or a proof
// element.
type Bytes32 = [32]byte

// LeafSum computes the domain-separated hash of a leaf datum.
func LeafSum(data []byte) Bytes32 {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{leafPrefix})
	h.Write(data)
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// NodeSum computes the domain-separated hash of an internal node from its
// two children.
func NodeSum(left, right Bytes32) Bytes32 {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{nodePrefix})
	h.Write(left[:])
	h.Write(right[:])
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// Result distinguishes "verification failed" from "an overflow in index
// arithmetic made the proof uninterpretable", per spec.md §4.3's "the
// function's result type expresses both outcomes".
type Result struct {
	Verified bool
	Overflow bool
}

// ok builds a definite (non-overflow) result.
func ok(v bool) Result { return Result{Verified: v} }

// Verify validates an inclusion proof for datum at proofIndex against root,
// given a tree of numLeaves total leaves and an ordered proofSet of
// sibling hashes from the leaf level up (spec.md §4.3/§8).
func Verify(root Bytes32, datum []byte, proofSet []Bytes32, proofIndex, numLeaves uint64) Result {
	sum := LeafSum(datum)

	if proofIndex >= numLeaves {
		return ok(false)
	}

	if len(proofSet) == 0 {
		if numLeaves == 1 {
			return ok(root == sum)
		}
		return ok(false)
	}

	height := 1
	stableEnd := proofIndex

	for {
		shift := uint(height)
		if shift >= 64 {
			return Result{Overflow: true}
		}
		subtreeStartIndex := (proofIndex / (uint64(1) << shift)) * (uint64(1) << shift)
		subtreeSize, overflow := addOverflows(subtreeStartIndex, (uint64(1)<<shift)-1)
		if overflow {
			return Result{Overflow: true}
		}
		subtreeEndIndex := subtreeSize

		if subtreeEndIndex >= numLeaves {
			break
		}

		stableEnd = subtreeEndIndex

		if len(proofSet) < height {
			return ok(false)
		}

		heightIndex := height - 1
		proofData := proofSet[heightIndex]
		indexDifference := proofIndex - subtreeStartIndex
		if indexDifference < uint64(1)<<uint(heightIndex) {
			sum = NodeSum(sum, proofData)
		} else {
			sum = NodeSum(proofData, sum)
		}

		height++
	}

	leafIndex := numLeaves - 1
	if stableEnd != leafIndex {
		if len(proofSet) < height {
			return ok(false)
		}
		heightIndex := height - 1
		proofData := proofSet[heightIndex]
		sum = NodeSum(sum, proofData)
		height++
	}

	for height-1 < len(proofSet) {
		heightIndex := height - 1
		proofData := proofSet[heightIndex]
		sum = NodeSum(proofData, sum)
		height++
	}

	return ok(sum == root)
}

func addOverflows(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}
