package leb128

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		input    int32
		expected []byte
	}{
		{input: -165675008, expected: []byte{0x80, 0x80, 0x80, 0xb1, 0x7f}},
		{input: -624485, expected: []byte{0x9b, 0xf1, 0x59}},
		{input: -16256, expected: []byte{0x80, 0x81, 0x7f}},
		{input: -4, expected: []byte{0x7c}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 4, expected: []byte{0x04}},
		{input: 16256, expected: []byte{0x80, 0xff, 0x0}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: 165675008, expected: []byte{0x80, 0x80, 0x80, 0xcf, 0x0}},
		{input: math.MaxInt32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
	} {
		require.Equal(t, c.expected, EncodeInt32(c.input))
		decoded, n, err := DecodeInt32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, len(c.expected), n)
	}
}

func TestEncodeDecodeInt64(t *testing.T) {
	for _, c := range []struct {
		input    int64
		expected []byte
	}{
		{input: -165675008, expected: []byte{0x80, 0x80, 0x80, 0xb1, 0x7f}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: math.MaxInt64, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x0}},
		{input: math.MinInt64, expected: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}},
	} {
		require.Equal(t, c.expected, EncodeInt64(c.input))
		decoded, n, err := DecodeInt64(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, len(c.expected), n)
	}
}

func TestEncodeDecodeUint32(t *testing.T) {
	for _, c := range []struct {
		input    uint32
		expected []byte
	}{
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 16256, expected: []byte{0x80, 0x7f}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: math.MaxUint32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xf}},
	} {
		require.Equal(t, c.expected, EncodeUint32(c.input))
		decoded, n, err := DecodeUint32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, len(c.expected), n)
	}
}

func TestDecodeUint32_overflow(t *testing.T) {
	for _, c := range [][]byte{
		{0x83, 0x80, 0x80, 0x80, 0x80, 0x00}, // 6 bytes, too long for 32-bit
		{0x82, 0x80, 0x80, 0x80, 0x70},       // fits in 5 bytes but high bits don't fit width
	} {
		_, _, err := DecodeUint32(c)
		require.Error(t, err)
	}
}

func TestDecode_truncated(t *testing.T) {
	_, _, err := DecodeUint32([]byte{0x80, 0x80})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLEB128AtWidthBudget(t *testing.T) {
	// Exactly 5 bytes is legal for a 32-bit value.
	_, n, err := DecodeUint32([]byte{0xff, 0xff, 0xff, 0xff, 0x0f})
	require.NoError(t, err)
	require.Equal(t, 5, n)

	// One byte longer is rejected, even if the extra byte is all continuation
	// zero bits.
	_, _, err = DecodeUint32([]byte{0xff, 0xff, 0xff, 0xff, 0x8f, 0x00})
	require.Error(t, err)

	// Exactly 10 bytes is legal for a 64-bit value.
	_, n, err = DecodeUint64([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	require.NoError(t, err)
	require.Equal(t, 10, n)
}
