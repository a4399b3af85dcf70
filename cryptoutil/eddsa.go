// Package cryptoutil adapts the teacher's crypto package (SigToPub,
// VerifySignature, Keccak256) to the signature recovery and hashing
// primitives the interpreter's ecrecover/keccak256/sha256 opcodes need
// (spec.md §4.7). Grounded on core-coin-go-core/crypto/signature_cgo.go
// and crypto/crypto.go, stripped of the account-model helpers
// (CreateAddress, key-file load/save) that have no home in this module.
package cryptoutil

import (
	"crypto/sha256"
	"errors"

	"github.com/core-coin/eddsa"
	"golang.org/x/crypto/sha3"
)

// SignatureLength and PubkeyLength match the Ed448 scheme's actual wire
// sizes (core-coin-go-core/crypto.SignatureLength / PubkeyLength): 168 and
// 56 bytes respectively. The interpreter's ecrecover opcode uses these as
// its memory-window widths rather than the generic 64-byte convention,
// since this module's cryptographic primitive is Ed448, not secp256k1.
const (
	SignatureLength = 112 + 56
	PubkeyLength    = 56
)

var errInvalidSignature = errors.New("cryptoutil: invalid signature")

// SigToPub recovers the public key embedded in sig, exactly mirroring the
// teacher's cgo SigToPub: Ed448 signature recovery, trusting the embedded
// key rather than re-deriving it from hash (the teacher's own code leaves
// hash unused here; verification against hash happens separately via
// VerifySignature when a caller wants it).
func SigToPub(hash, sig []byte) (*eddsa.PublicKey, error) {
	_ = hash
	if len(sig) != SignatureLength {
		return nil, errInvalidSignature
	}
	pubkey, err := eddsa.Ed448().SigToPub(sig)
	if err != nil {
		return nil, err
	}
	return eddsa.Ed448().UnmarshalPub(pubkey)
}

// Ecrecover returns the marshaled public key that produced sig, or an error
// if recovery fails.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := SigToPub(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub.X, nil
}

// VerifySignature checks that pub produced signature over hash.
func VerifySignature(pub, hash, signature []byte) bool {
	pubkey, err := eddsa.Ed448().UnmarshalPub(pub)
	if err != nil {
		return false
	}
	return eddsa.Ed448().Verify(pubkey, hash, signature)
}

// Keccak256 hashes data with the Keccak-256 permutation used throughout
// this module for Merkle leaf/node hashing and the keccak256 opcode.
func Keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Sha256 hashes data with the standard-library SHA-256 implementation: a
// plain fixed hash primitive with no ecosystem-specific variant to ground
// it on across the retrieved examples.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
