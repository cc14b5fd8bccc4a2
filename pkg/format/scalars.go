package format

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MaxSafeInteger is the largest integer a double represents exactly (2^53 - 1).
const MaxSafeInteger = 1<<53 - 1

var (
	hexPattern       = regexp.MustCompile(`^0x[0-9a-fA-F]*$`)
	hexNumberPattern = regexp.MustCompile(`^-?0x[0-9a-fA-F]+$`)
	decimalPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	timestampPattern = regexp.MustCompile(`^\d{10}\.\d{9}$`)

	maxSafe = big.NewInt(MaxSafeInteger)
	minSafe = big.NewInt(-MaxSafeInteger)
)

// IsHexString reports whether s is a 0x-prefixed hex string. "0x" is valid.
func IsHexString(s string) bool {
	return hexPattern.MatchString(s)
}

// Hex returns value as a lowercase 0x-prefixed hex string. Unless strict, a missing
// 0x prefix is added before validation.
func Hex(value any, strict bool) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", argumentError("invalid hex string", value)
	}
	if !strict && !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if !IsHexString(s) {
		return "", argumentError("invalid hex string", value)
	}
	return strings.ToLower(s), nil
}

// Data is Hex restricted to an even number of nibbles.
func Data(value any, strict bool) (string, error) {
	s, err := Hex(value, strict)
	if err != nil {
		return "", err
	}
	if len(s)%2 != 0 {
		return "", argumentError("invalid data; odd-length", value)
	}
	return s, nil
}

// Hash32 is Data of exactly 32 bytes.
func Hash32(value any, strict bool) (string, error) {
	return hashOfLength(value, strict, 32)
}

// Hash48 is Data of exactly 48 bytes.
func Hash48(value any, strict bool) (string, error) {
	return hashOfLength(value, strict, 48)
}

func hashOfLength(value any, strict bool, size int) (string, error) {
	s, err := Hex(value, strict)
	if err != nil {
		return "", err
	}
	if len(s) != 2+2*size {
		return "", argumentError("invalid hash", value)
	}
	return s, nil
}

// Uint256 zero-left-pads a hex value to 32 bytes.
func Uint256(value any) (string, error) {
	s, ok := value.(string)
	if !ok || !IsHexString(s) {
		return "", argumentError("invalid uint256", value)
	}
	digits := strings.ToLower(s[2:])
	if len(digits) > 64 {
		return "", argumentError("uint256 out of range", value)
	}
	return "0x" + strings.Repeat("0", 64-len(digits)) + digits, nil
}

// BigNumber parses an arbitrary-precision integer from Go integers, integral floats
// within the safe range, json.Number, *big.Int, or hex ("0x..", "-0x..") and decimal
// strings. "0x" is zero.
//
// Floats must satisfy |f| < MaxSafeInteger, so float64(MaxSafeInteger) overflows while
// the same value as a string or integer parses.
func BigNumber(value any) (*big.Int, error) {
	switch t := value.(type) {
	case *big.Int:
		if t == nil {
			break
		}
		return new(big.Int).Set(t), nil
	case big.Int:
		return new(big.Int).Set(&t), nil
	case *hexutil.Big:
		if t == nil {
			break
		}
		return new(big.Int).Set(t.ToInt()), nil
	case int:
		return big.NewInt(int64(t)), nil
	case int8:
		return big.NewInt(int64(t)), nil
	case int16:
		return big.NewInt(int64(t)), nil
	case int32:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case float32:
		return fromFloat(float64(t), value)
	case float64:
		return fromFloat(t, value)
	case json.Number:
		if f, ok := floatValue(t); ok {
			return fromFloat(f, value)
		}
		return fromString(string(t), value)
	case string:
		return fromString(t, value)
	}
	return nil, argumentError("invalid BigNumber value", value)
}

func fromFloat(f float64, orig any) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, argumentError("underflow", orig)
	}
	if f >= MaxSafeInteger || f <= -MaxSafeInteger {
		return nil, argumentError("overflow", orig)
	}
	return big.NewInt(int64(f)), nil
}

func fromString(s string, orig any) (*big.Int, error) {
	switch {
	case s == "0x":
		return new(big.Int), nil
	case hexNumberPattern.MatchString(s):
		neg := strings.HasPrefix(s, "-")
		n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "-")[2:], 16)
		if !ok {
			return nil, argumentError("invalid BigNumber string", orig)
		}
		if neg {
			n.Neg(n)
		}
		return n, nil
	case decimalPattern.MatchString(s):
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, argumentError("invalid BigNumber string", orig)
		}
		return n, nil
	}
	return nil, argumentError("invalid BigNumber string", orig)
}

// floatValue reports float64 input and JSON numbers written with a fraction or
// exponent.
func floatValue(value any) (float64, bool) {
	switch t := value.(type) {
	case float64:
		return t, true
	case json.Number:
		if decimalPattern.MatchString(string(t)) {
			return 0, false
		}
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// Number is BigNumber narrowed to the safe-integer range.
func Number(value any) (int64, error) {
	n, err := BigNumber(value)
	if err != nil {
		return 0, err
	}
	if n.Cmp(maxSafe) > 0 || n.Cmp(minSafe) < 0 {
		return 0, argumentError("overflow", value)
	}
	return n.Int64(), nil
}

// Type is Number with "0x" and null read as 0.
func Type(value any) (int64, error) {
	if value == nil || value == "0x" {
		return 0, nil
	}
	return Number(value)
}

// Boolean accepts a bool or a case-insensitive "true"/"false".
func Boolean(value any) (bool, error) {
	switch t := value.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, argumentError("invalid boolean", value)
}

// Timestamp validates a "seconds.nanoseconds" consensus timestamp.
func Timestamp(value any) (string, error) {
	s, ok := value.(string)
	if !ok || !timestampPattern.MatchString(s) {
		return "", argumentError("bad timestamp format", value)
	}
	return s, nil
}

// Difficulty returns nil for null input and for values outside the safe-integer
// range; only malformed input is an error.
func Difficulty(value any) (*int64, error) {
	if value == nil {
		return nil, nil
	}
	if f, ok := floatValue(value); ok && f == math.Trunc(f) && math.Abs(f) >= MaxSafeInteger {
		return nil, nil
	}
	n, err := BigNumber(value)
	if err != nil {
		return nil, err
	}
	if n.Cmp(maxSafe) > 0 || n.Cmp(minSafe) < 0 {
		return nil, nil
	}
	v := n.Int64()
	return &v, nil
}
