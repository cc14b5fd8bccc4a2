// Package random derives reproducible pseudo-random bytes and integers from a string
// seed by hash chaining. Output depends only on the seed, the bounds and the hash,
// which makes it suitable for test fixtures and sampling, not for secrets.
package random

import (
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// HashFunc is the entropy source. It must be deterministic.
type HashFunc func(data []byte) []byte

// Generator derives values with Hash. The zero value uses Keccak-256.
type Generator struct {
	Hash HashFunc
}

var defaultGenerator = Generator{}

func (g Generator) hash(data []byte) []byte {
	if g.Hash == nil {
		return crypto.Keccak256(data)
	}
	return g.Hash(data)
}

// Bytes returns a prefix of the seed's hash chain whose length lies in
// [lower, upper], chosen by the chain itself. An upper below lower is raised to
// lower.
func (g Generator) Bytes(seed string, lower, upper int) []byte {
	if lower < 0 {
		lower = 0
	}
	if upper < lower {
		upper = lower
	}
	if upper == 0 {
		return []byte{}
	}

	result := g.hash([]byte(seed))
	for len(result) < upper {
		next := g.hash(result)
		result = append(result[:len(result):len(result)], next...)
	}

	top := g.hash(result)
	length := lower + int(math.Floor(float64(upper-lower)*fraction(top)))
	out := make([]byte, length)
	copy(out, result)
	return out
}

// HexString is Bytes encoded as 0x-prefixed hex.
func (g Generator) HexString(seed string, lower, upper int) string {
	return hexutil.Encode(g.Bytes(seed, lower, upper))
}

// Number returns an integer in [lower, upper) drawn from three bytes of the seed's
// hash chain. When upper == lower the result is lower.
func (g Generator) Number(seed string, lower, upper int) int {
	b := g.Bytes(seed, 3, 3)
	return lower + int(math.Floor(float64(upper-lower)*fraction(b)))
}

// fraction reads the first three bytes as a 24-bit fraction in [0, 1).
func fraction(b []byte) float64 {
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	return float64(v) / 0x01000000
}

// Bytes calls Generator.Bytes with Keccak-256.
func Bytes(seed string, lower, upper int) []byte {
	return defaultGenerator.Bytes(seed, lower, upper)
}

// HexString calls Generator.HexString with Keccak-256.
func HexString(seed string, lower, upper int) string {
	return defaultGenerator.HexString(seed, lower, upper)
}

// Number calls Generator.Number with Keccak-256.
func Number(seed string, lower, upper int) int {
	return defaultGenerator.Number(seed, lower, upper)
}
