package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const maxExternalLength = 64

// Generator creates opaque IDs used to correlate requests across logs.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns a generator producing hex IDs of size random bytes.
// Non-positive sizes default to 8 bytes.
func NewRandomGenerator(size int) *RandomGenerator {
	if size <= 0 {
		size = 8
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Acceptable reports whether an ID supplied by a client can be echoed back
// and logged as-is.
func Acceptable(v string) bool {
	if v == "" || len(v) > maxExternalLength {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
