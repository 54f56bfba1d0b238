// Package leb128 implements LEB128 and SLEB128 variable-length integer
// encoding as used throughout the WebAssembly binary format.
package leb128

import "fmt"

// ErrOverflow is returned when a LEB128/SLEB128 sequence exceeds the byte
// budget for its target width (5 bytes for 32-bit, 10 bytes for 64-bit).
type ErrOverflow struct {
	Width int // 32 or 64
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("leb128: value exceeds %d-bit budget", e.Width)
}

// ErrTruncated is returned when the input ends before a continuation bit
// sequence terminates.
var ErrTruncated = fmt.Errorf("leb128: truncated integer")

// maxBytes32/maxBytes64 are the widest a well-formed LEB128/SLEB128 stream
// may be for the given target width: ceil(width/7).
const (
	maxBytes32 = 5
	maxBytes64 = 10
)

// DecodeUint32 reads an unsigned LEB128-encoded uint32 from b, returning the
// value and the number of bytes consumed.
func DecodeUint32(b []byte) (uint32, int, error) {
	v, n, err := decodeUint(b, 32, maxBytes32)
	return uint32(v), n, err
}

// DecodeUint64 reads an unsigned LEB128-encoded uint64 from b.
func DecodeUint64(b []byte) (uint64, int, error) {
	return decodeUint(b, 64, maxBytes64)
}

func decodeUint(b []byte, width, maxBytes int) (uint64, int, error) {
	var result uint64
	var shift uint
	for i := 0; ; i++ {
		if i >= maxBytes {
			return 0, 0, &ErrOverflow{Width: width}
		}
		if i >= len(b) {
			return 0, 0, ErrTruncated
		}
		c := b[i]
		chunk := uint64(c & 0x7f)
		if shift >= 64 {
			return 0, 0, &ErrOverflow{Width: width}
		}
		// Reject superfluous high bits in the final byte that would not fit
		// within the target width.
		if i == maxBytes-1 {
			maxLastByte := byte(1<<uint(width-7*(maxBytes-1))) - 1
			if c&0x7f&^maxLastByte != 0 {
				return 0, 0, &ErrOverflow{Width: width}
			}
		}
		result |= chunk << shift
		if c&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
}

// DecodeInt32 reads a signed SLEB128-encoded int32 from b.
func DecodeInt32(b []byte) (int32, int, error) {
	v, n, err := decodeInt(b, 32, maxBytes32)
	return int32(v), n, err
}

// DecodeInt64 reads a signed SLEB128-encoded int64 from b.
func DecodeInt64(b []byte) (int64, int, error) {
	return decodeInt(b, 64, maxBytes64)
}

// DecodeInt33AsInt64 reads a 33-bit signed SLEB128 value (used for block
// type immediates, which are encoded as a signed LEB128 that can hold
// either a one-byte value-type tag or a larger positive type index) and
// sign-extends it into an int64.
func DecodeInt33AsInt64(b []byte) (int64, int, error) {
	return decodeInt(b, 33, maxBytes32)
}

func decodeInt(b []byte, width, maxBytes int) (int64, int, error) {
	var result int64
	var shift uint
	var c byte
	i := 0
	for ; ; i++ {
		if i >= maxBytes {
			return 0, 0, &ErrOverflow{Width: width}
		}
		if i >= len(b) {
			return 0, 0, ErrTruncated
		}
		c = b[i]
		result |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	// Sign extend if the sign bit of the last group is set and there are
	// unfilled high bits in the int64 accumulator.
	if shift < 64 && c&0x40 != 0 {
		result |= -1 << shift
	}
	if width < 64 {
		// Values must fit back into the target width once sign-extended to
		// int64, otherwise the encoding carried more precision than the
		// width budget allows.
		min := int64(-1) << (width - 1)
		max := int64(1)<<(width-1) - 1
		if width == 33 {
			// 33-bit block-type immediates are widened callers decide how to
			// interpret; no extra range check beyond the byte budget.
		} else if result < min || result > max {
			return 0, 0, &ErrOverflow{Width: width}
		}
	}
	return result, i + 1, nil
}

// EncodeUint32 returns the unsigned LEB128 encoding of v. Used by tests and
// by tooling that re-serializes decoded modules.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 returns the unsigned LEB128 encoding of v.
func EncodeUint64(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// EncodeInt32 returns the signed SLEB128 encoding of v.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 returns the signed SLEB128 encoding of v.
func EncodeInt64(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
