package random

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// keccakChain rebuilds the hash chain with x/crypto directly: hash the seed, append
// hash(accumulator) until upper bytes exist, then cut at the length chosen by the
// first three bytes of hash(accumulator).
func keccakChain(seed string, lower, upper int) []byte {
	sum := func(b []byte) []byte {
		h := sha3.NewLegacyKeccak256()
		h.Write(b)
		return h.Sum(nil)
	}
	if upper == 0 {
		return []byte{}
	}
	acc := sum([]byte(seed))
	for len(acc) < upper {
		acc = append(acc, sum(acc)...)
	}
	top := sum(acc)
	frac := float64(int(top[0])<<16|int(top[1])<<8|int(top[2])) / 16777216
	return acc[:lower+int(math.Floor(float64(upper-lower)*frac))]
}

func TestBytesKnownValues(t *testing.T) {
	tests := []struct {
		seed         string
		lower, upper int
		want         string
	}{
		{"seed", 10, 20, "0x66a80b61b29ec044d14c4c8c613e76"},
		{"fixture", 8, 64, "0x92c374f903e12c46"},
		{"q", 0, 65, "0x3ff269d37634c240a40e1b0de0d61faffb6bbb3c251727e2ef176a979d8b95ff93749e7e719a803761"},
		{"abc", 33, 200, "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45" +
			"b8e12eedbb60e5321db47f5a3bfeb8ec0ff6ae9af10020cc61bb8c82ae0b7b66" +
			"b6014ca98a876f92834f353d5951a9d35455b38fb4b2d93cf199d9751c8c486c" +
			"e0bd22a962f44ce80a9da34bcbd5b6e776802b68bcfea8565f14d3b7097aa94d" +
			"7236647f50800887f4046db6a79b35e7f7aa2b8bc39289db6b52ff015942c754" +
			"8fd7a5263180a66b8752eaa0e069178f770e7b6f63e3315ac695ab076265816fab"},
	}
	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			require.Equal(t, tt.want, hexutil.Encode(keccakChain(tt.seed, tt.lower, tt.upper)))
			require.Equal(t, tt.want, hexutil.Encode(Bytes(tt.seed, tt.lower, tt.upper)))
			require.Equal(t, tt.want, HexString(tt.seed, tt.lower, tt.upper))
		})
	}
}

func TestNumberKnownValues(t *testing.T) {
	tests := []struct {
		seed         string
		lower, upper int
		want         int
	}{
		{"seed", 5, 10, 7},
		{"alpha", 5, 10, 7},
		{"beta", 5, 10, 8},
		{"gamma", 5, 10, 7},
		{"seed", 0, 1000000, 401001},
		{"alpha", 0, 1000000, 429628},
		{"beta", 0, 1000000, 613251},
		{"gamma", 0, 1000000, 557657},
	}
	for _, tt := range tests {
		b := keccakChain(tt.seed, 3, 3)
		frac := float64(int(b[0])<<16|int(b[1])<<8|int(b[2])) / 16777216
		require.Equal(t, tt.want, tt.lower+int(math.Floor(float64(tt.upper-tt.lower)*frac)), "reference %s", tt.seed)
		require.Equal(t, tt.want, Number(tt.seed, tt.lower, tt.upper), "seed %s", tt.seed)
	}
}

func TestBytesDeterministic(t *testing.T) {
	a := Bytes("fixture", 8, 64)
	b := Bytes("fixture", 8, 64)
	require.Equal(t, a, b)
	require.GreaterOrEqual(t, len(a), 8)
	require.LessOrEqual(t, len(a), 64)

	require.NotEqual(t, Bytes("fixture", 40, 40), Bytes("other", 40, 40))
	require.Equal(t, Bytes("seed", 10, 20), Bytes("seed", 10, 20))
}

func TestBytesBounds(t *testing.T) {
	require.Empty(t, Bytes("seed", 0, 0))
	require.Len(t, Bytes("seed", 40, 40), 40)
	require.Len(t, Bytes("seed", 100, 10), 100)
	require.Len(t, Bytes("seed", -5, 0), 0)

	for _, seed := range []string{"a", "b", "c", "d", "e"} {
		n := len(Bytes(seed, 3, 7))
		require.GreaterOrEqual(t, n, 3)
		require.LessOrEqual(t, n, 7)
	}
}

func TestBytesIsPrefixOfHashChain(t *testing.T) {
	short := Bytes("prefix", 10, 10)
	long := Bytes("prefix", 90, 90)
	require.True(t, bytes.HasPrefix(long, short))
}

func TestGeneratorCustomHash(t *testing.T) {
	g := Generator{Hash: func([]byte) []byte { return bytes.Repeat([]byte{0x80}, 32) }}

	got := g.Bytes("seed", 0, 10)
	require.Equal(t, bytes.Repeat([]byte{0x80}, 5), got)
	require.Equal(t, "0x"+strings.Repeat("80", 5), g.HexString("seed", 0, 10))
	require.Equal(t, 50, g.Number("seed", 0, 100))
}

func TestNumber(t *testing.T) {
	for _, seed := range []string{"alpha", "beta", "gamma", "delta"} {
		n := Number(seed, 5, 10)
		require.GreaterOrEqual(t, n, 5)
		require.Less(t, n, 10)
		require.Equal(t, n, Number(seed, 5, 10))
	}
	require.Equal(t, 7, Number("any", 7, 7))
}

func TestHexString(t *testing.T) {
	s := HexString("hex", 4, 4)
	require.True(t, strings.HasPrefix(s, "0x"))
	require.Len(t, s, 2+8)
	require.Equal(t, "0x", HexString("hex", 0, 0))
}
