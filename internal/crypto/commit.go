package crypto

import (
	"crypto/subtle"

	"golang.org/x/crypto/sha3"
)

// CommitmentSize is the length of an action commitment.
const CommitmentSize = 32

// CommitActions returns Keccak-256(salt || actions), the commitment a client submits
// before revealing its actions. The server stores it but never checks reveals against it.
func CommitActions(salt, actions []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(salt)
	h.Write(actions)
	return h.Sum(nil)
}

// VerifyCommitment reports whether actions and salt open the commitment.
func VerifyCommitment(commitment, salt, actions []byte) bool {
	return subtle.ConstantTimeCompare(CommitActions(salt, actions), commitment) == 1
}
