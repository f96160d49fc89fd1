package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint is the determinism hash of a report payload. Two runs over
// identical input must produce equal fingerprints.
type Fingerprint Hash

// String conversion
func (f Fingerprint) String() string { return Hash(f).String() }

// IsEmpty checks if the fingerprint is empty
func (f Fingerprint) IsEmpty() bool { return Hash(f).IsEmpty() }

// ComputeFingerprint hashes the canonical JSON encoding of a payload.
// encoding/json writes struct fields in declaration order and map keys
// sorted, so the encoding is stable for a fixed payload shape.
func ComputeFingerprint(payload interface{}) (Fingerprint, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint encode: %w", err)
	}
	return Fingerprint(NewHash(data)), nil
}
