package binary

import (
	"encoding/binary"
	"math"

	"github.com/modwasm/modwasm/internal/leb128"
	"github.com/modwasm/modwasm/internal/wasm"
)

// reader owns the input byte slice and a cursor into it. Every container in
// the binary format (module, section, code entry, block) is self-delimited
// by a declared length; reader threads a single mutable offset through the
// whole decode rather than wrapping each container in its own io.Reader, so
// that byte-length bookkeeping needed by the function-body decoder stays
// exact without extra accounting.
type reader struct {
	buf    []byte
	offset int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) isEOF() bool { return r.offset >= len(r.buf) }

func (r *reader) remaining() int { return len(r.buf) - r.offset }

// read1 reads a single byte and advances the cursor by one.
func (r *reader) read1() (byte, error) {
	if r.offset >= len(r.buf) {
		return 0, wasm.Malformedf("unexpected end of input at offset %d", r.offset)
	}
	b := r.buf[r.offset]
	r.offset++
	return b, nil
}

// read4 reads a little-endian 32-bit word, used only for the magic number
// and version fields of the module preamble.
func (r *reader) read4() (uint32, error) {
	if r.remaining() < 4 {
		return 0, wasm.Malformedf("unexpected end of input at offset %d", r.offset)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.offset : r.offset+4])
	r.offset += 4
	return v, nil
}

// readBytes reads n raw bytes.
func (r *reader) readBytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, wasm.Malformedf("unexpected end of input at offset %d: need %d bytes", r.offset, n)
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// readString reads an n-byte US-ASCII/UTF-8 name.
func (r *reader) readString(n int) (string, error) {
	b, err := r.readBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readName reads a LEB128 length-prefixed name, as used for import/export
// module and field names.
func (r *reader) readName() (string, error) {
	n, err := r.readUnsignedInt32()
	if err != nil {
		return "", err
	}
	return r.readString(int(n))
}

// readUnsignedInt32 reads an unsigned LEB128 uint32.
func (r *reader) readUnsignedInt32() (uint32, error) {
	v, _, err := r.readUnsignedInt32Sized()
	return v, err
}

// readUnsignedInt32Sized is like readUnsignedInt32 but also returns the
// number of bytes the encoding occupied, needed by the code-section decoder
// to emit byte-length immediates into the byte constant pool.
func (r *reader) readUnsignedInt32Sized() (uint32, int, error) {
	v, n, err := leb128.DecodeUint32(r.buf[r.offset:])
	if err != nil {
		return 0, 0, wasm.Malformedf("%s at offset %d", err, r.offset)
	}
	r.offset += n
	return v, n, nil
}

// readSignedInt32 reads a signed SLEB128 int32, returning the byte-length
// of the encoding alongside the value.
func (r *reader) readSignedInt32() (int32, int, error) {
	v, n, err := leb128.DecodeInt32(r.buf[r.offset:])
	if err != nil {
		return 0, 0, wasm.Malformedf("%s at offset %d", err, r.offset)
	}
	r.offset += n
	return v, n, nil
}

// readSignedInt64 reads a signed SLEB128 int64, returning the byte-length
// of the encoding alongside the value.
func (r *reader) readSignedInt64() (int64, int, error) {
	v, n, err := leb128.DecodeInt64(r.buf[r.offset:])
	if err != nil {
		return 0, 0, wasm.Malformedf("%s at offset %d", err, r.offset)
	}
	r.offset += n
	return v, n, nil
}

// readBlockType reads a block-type immediate: api.BlockTypeVoid (0x40) or a
// single value-type byte, returned as a signed 33-bit value the way the
// binary format encodes it (this module version never uses the positive,
// multi-byte "type index" shape of the later multi-value proposal).
func (r *reader) readBlockType() (int64, int, error) {
	v, n, err := leb128.DecodeInt33AsInt64(r.buf[r.offset:])
	if err != nil {
		return 0, 0, wasm.Malformedf("%s at offset %d", err, r.offset)
	}
	r.offset += n
	return v, n, nil
}

// readFloat32AsInt32 reads a fixed-width little-endian IEEE-754 single as
// its raw bit pattern.
func (r *reader) readFloat32AsInt32() (int32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// readFloat64AsInt64 reads a fixed-width little-endian IEEE-754 double as
// its raw bit pattern.
func (r *reader) readFloat64AsInt64() (int64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// peek1 returns the byte at offset+relativeOffset without advancing.
func (r *reader) peek1(relativeOffset int) (byte, bool) {
	i := r.offset + relativeOffset
	if i < 0 || i >= len(r.buf) {
		return 0, false
	}
	return r.buf[i], true
}

// peekUnsignedInt32 decodes an unsigned LEB128 uint32 starting skip bytes
// ahead of the cursor, without advancing it.
func (r *reader) peekUnsignedInt32(skip int) (uint32, error) {
	i := r.offset + skip
	if i > len(r.buf) {
		return 0, wasm.Malformedf("unexpected end of input at offset %d", i)
	}
	v, _, err := leb128.DecodeUint32(r.buf[i:])
	if err != nil {
		return 0, wasm.Malformedf("%s at offset %d", err, i)
	}
	return v, nil
}

// float32Bits and float64Bits are small helpers used by tests constructing
// expected raw bit patterns; the decoder itself does not call them.
func float32Bits(f float32) int32 { return int32(math.Float32bits(f)) }
func float64Bits(f float64) int64 { return int64(math.Float64bits(f)) }
