// Package crypto implements the server randomness source and commitment hashing.
package crypto

import (
	"crypto/rand"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// ByteSource supplies one random byte per draw.
type ByteSource struct{}

// Byte draws a single byte from crypto/rand.
func (ByteSource) Byte() (byte, error) {
	b, err := RandBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
