package format

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		strict  bool
		want    string
		wantErr bool
	}{
		{name: "lowercases", in: "0xABcd", want: "0xabcd"},
		{name: "adds prefix when loose", in: "ABC", want: "0xabc"},
		{name: "empty data", in: "0x", want: "0x"},
		{name: "strict rejects missing prefix", in: "abc", strict: true, wantErr: true},
		{name: "rejects non-hex", in: "0xzz", wantErr: true},
		{name: "rejects non-string", in: 12, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hex(tt.in, tt.strict)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, IsKind(err, KindArgument))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDataAndHashes(t *testing.T) {
	_, err := Data("0xabc", true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "odd-length")

	got, err := Data("ABCD", false)
	require.NoError(t, err)
	require.Equal(t, "0xabcd", got)

	h32 := "0x" + strings.Repeat("Aa", 32)
	got, err = Hash32(h32, true)
	require.NoError(t, err)
	require.Equal(t, strings.ToLower(h32), got)

	_, err = Hash32("0x"+strings.Repeat("aa", 31), true)
	require.Error(t, err)

	_, err = Hash48(h32, true)
	require.Error(t, err)

	got, err = Hash48(strings.Repeat("bb", 48), false)
	require.NoError(t, err)
	require.Equal(t, "0x"+strings.Repeat("bb", 48), got)
}

func TestUint256(t *testing.T) {
	got, err := Uint256("0x1")
	require.NoError(t, err)
	require.Equal(t, "0x"+strings.Repeat("0", 63)+"1", got)

	got, err = Uint256("0xFF")
	require.NoError(t, err)
	require.Equal(t, "0x"+strings.Repeat("0", 62)+"ff", got)

	_, err = Uint256("0x" + strings.Repeat("1", 65))
	require.Error(t, err)

	_, err = Uint256("1")
	require.Error(t, err)
}

func TestBigNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr string
	}{
		{name: "empty hex is zero", in: "0x", want: 0},
		{name: "hex", in: "0x10", want: 16},
		{name: "negative hex", in: "-0x10", want: -16},
		{name: "decimal", in: "42", want: 42},
		{name: "negative decimal", in: "-7", want: -7},
		{name: "json number", in: json.Number("7"), want: 7},
		{name: "json exponent", in: json.Number("2.1e4"), want: 21000},
		{name: "json fraction", in: json.Number("0.5"), wantErr: "underflow"},
		{name: "int", in: 21000, want: 21000},
		{name: "uint64", in: uint64(5), want: 5},
		{name: "integral float", in: float64(3), want: 3},
		{name: "big int", in: big.NewInt(99), want: 99},
		{name: "fraction", in: 1.5, wantErr: "underflow"},
		{name: "huge float", in: 1e300, wantErr: "overflow"},
		{name: "garbage", in: "abc", wantErr: "invalid BigNumber string"},
		{name: "bool", in: true, wantErr: "invalid BigNumber value"},
		{name: "null", in: nil, wantErr: "invalid BigNumber value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BigNumber(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				require.True(t, IsKind(err, KindArgument))
				return
			}
			require.NoError(t, err)
			require.Zero(t, got.Cmp(big.NewInt(tt.want)), "got %s", got)
		})
	}
}

func TestBigNumberDoesNotAliasInput(t *testing.T) {
	in := big.NewInt(10)
	out, err := BigNumber(in)
	require.NoError(t, err)
	out.SetInt64(11)
	require.Equal(t, int64(10), in.Int64())
}

func TestNumber(t *testing.T) {
	got, err := Number("0x1fffffffffffff")
	require.NoError(t, err)
	require.Equal(t, int64(MaxSafeInteger), got)

	_, err = Number(float64(MaxSafeInteger))
	require.Error(t, err)
	require.Contains(t, err.Error(), "overflow")

	got, err = Number(float64(MaxSafeInteger - 1))
	require.NoError(t, err)
	require.Equal(t, int64(MaxSafeInteger-1), got)

	_, err = Number("0x20000000000000")
	require.Error(t, err)
	require.Contains(t, err.Error(), "overflow")

	got, err = Number(json.Number("12"))
	require.NoError(t, err)
	require.Equal(t, int64(12), got)
}

func TestType(t *testing.T) {
	for _, in := range []any{nil, "0x", "0x0", 0} {
		got, err := Type(in)
		require.NoError(t, err)
		require.Zero(t, got)
	}
	got, err := Type("0x2")
	require.NoError(t, err)
	require.Equal(t, int64(2), got)
}

func TestBoolean(t *testing.T) {
	for in, want := range map[any]bool{true: true, false: false, "TRUE": true, "false": false} {
		got, err := Boolean(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := Boolean("yes")
	require.Error(t, err)
	_, err = Boolean(1)
	require.Error(t, err)
}

func TestTimestamp(t *testing.T) {
	got, err := Timestamp("1700000000.000000001")
	require.NoError(t, err)
	require.Equal(t, "1700000000.000000001", got)

	for _, bad := range []any{"1700000000.1", "170000000.000000001", "1700000000", 1700000000} {
		_, err := Timestamp(bad)
		require.Error(t, err, "input %v", bad)
		require.Contains(t, err.Error(), "bad timestamp format")
	}
}

func TestDifficulty(t *testing.T) {
	got, err := Difficulty(nil)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = Difficulty("0x10")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(16), *got)

	got, err = Difficulty(float64(1 << 60))
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = Difficulty(json.Number("1e30"))
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = Difficulty("0x1000000000000000")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = Difficulty("zz")
	require.Error(t, err)
}

func TestDataIsIdempotent(t *testing.T) {
	for _, in := range []string{"0x", "0xABCD", "abcdef", "0x00ff"} {
		once, err := Data(in, false)
		require.NoError(t, err)
		twice, err := Data(once, false)
		require.NoError(t, err)
		require.Equal(t, once, twice)
	}
}

func TestNumberRejectsNull(t *testing.T) {
	_, err := Number(nil)
	require.Error(t, err)

	n, err := Number("0x")
	require.NoError(t, err)
	require.Zero(t, n)
}
