package loot

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
)

// RNG is the random source used for every draw. *rand.Rand satisfies it.
type RNG interface {
	// Intn returns a uniform int in [0, n). n must be positive.
	Intn(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// CryptoRand draws from crypto/rand. It is not reproducible.
type CryptoRand struct{}

// Intn returns a uniform int in [0, n) using crypto/rand (CSPRNG).
func (CryptoRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	v, err := crand.Int(crand.Reader, max)
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// between returns a uniform int in [min, max].
func between(rng RNG, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
