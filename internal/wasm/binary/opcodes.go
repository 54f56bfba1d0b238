package binary

// Opcode bytes used by the constant-expression parser and the function-body
// decoder. Not every WebAssembly 1.0 opcode needs a named constant here —
// only the ones referenced by name in the control-flow/immediate-reading
// logic; purely-numeric opcodes are matched by range or by table lookup in
// code.go.
const (
	opUnreachable  byte = 0x00
	opNop          byte = 0x01
	opBlock        byte = 0x02
	opLoop         byte = 0x03
	opIf           byte = 0x04
	opElse         byte = 0x05
	opEnd          byte = 0x0b
	opBr           byte = 0x0c
	opBrIf         byte = 0x0d
	opBrTable      byte = 0x0e
	opReturn       byte = 0x0f
	opCall         byte = 0x10
	opCallIndirect byte = 0x11
	opDrop         byte = 0x1a
	opSelect       byte = 0x1b

	opLocalGet  byte = 0x20
	opLocalSet  byte = 0x21
	opLocalTee  byte = 0x22
	opGlobalGet byte = 0x23
	opGlobalSet byte = 0x24

	opI32Load    byte = 0x28
	opI64Load    byte = 0x29
	opF32Load    byte = 0x2a
	opF64Load    byte = 0x2b
	opI32Load8S  byte = 0x2c
	opI32Load8U  byte = 0x2d
	opI32Load16S byte = 0x2e
	opI32Load16U byte = 0x2f
	opI64Load8S  byte = 0x30
	opI64Load8U  byte = 0x31
	opI64Load16S byte = 0x32
	opI64Load16U byte = 0x33
	opI64Load32S byte = 0x34
	opI64Load32U byte = 0x35

	opI32Store   byte = 0x36
	opI64Store   byte = 0x37
	opF32Store   byte = 0x38
	opF64Store   byte = 0x39
	opI32Store8  byte = 0x3a
	opI32Store16 byte = 0x3b
	opI64Store8  byte = 0x3c
	opI64Store16 byte = 0x3d
	opI64Store32 byte = 0x3e

	opMemorySize byte = 0x3f
	opMemoryGrow byte = 0x40

	opI32Const byte = 0x41
	opI64Const byte = 0x42
	opF32Const byte = 0x43
	opF64Const byte = 0x44
)

// loadOpcodes and storeOpcodes enumerate the 14 load and 9 store opcodes:
// all share the "read align, read offset, pop/push" shape.
var loadOpcodes = map[byte]bool{
	opI32Load: true, opI64Load: true, opF32Load: true, opF64Load: true,
	opI32Load8S: true, opI32Load8U: true, opI32Load16S: true, opI32Load16U: true,
	opI64Load8S: true, opI64Load8U: true, opI64Load16S: true, opI64Load16U: true,
	opI64Load32S: true, opI64Load32U: true,
}

var storeOpcodes = map[byte]bool{
	opI32Store: true, opI64Store: true, opF32Store: true, opF64Store: true,
	opI32Store8: true, opI32Store16: true,
	opI64Store8: true, opI64Store16: true, opI64Store32: true,
}

// numericArity describes the stack effect of the remaining numeric opcodes:
// comparisons, unary/binary arithmetic, eqz, and conversions. pop is how many operands the
// opcode consumes; push is how many it produces (always 0 or 1 here).
type numericArity struct {
	pop  int
	push int
}

// numericArityOf covers every remaining opcode in the 0x45-0xbf range (i32
// eqz through the various truncation/conversion operators): unary ops pop 1
// push 1, binary ops pop 2 push 1. The WebAssembly 1.0 opcode table assigns
// these in contiguous runs per type; rather than hand-enumerate all 123
// mnemonics we classify by the well-known boundaries of each type's run.
func numericArityOf(op byte) (numericArity, bool) {
	switch {
	case op == 0x45: // i32.eqz
		return numericArity{pop: 1, push: 1}, true
	case op >= 0x46 && op <= 0x4f: // i32 comparisons
		return numericArity{pop: 2, push: 1}, true
	case op == 0x50: // i64.eqz
		return numericArity{pop: 1, push: 1}, true
	case op >= 0x51 && op <= 0x5a: // i64 comparisons
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x5b && op <= 0x60: // f32 comparisons
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x61 && op <= 0x66: // f64 comparisons
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x67 && op <= 0x69: // i32 clz/ctz/popcnt (unary)
		return numericArity{pop: 1, push: 1}, true
	case op >= 0x6a && op <= 0x78: // i32 binary arithmetic
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x79 && op <= 0x7b: // i64 clz/ctz/popcnt (unary)
		return numericArity{pop: 1, push: 1}, true
	case op >= 0x7c && op <= 0x8a: // i64 binary arithmetic
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x8b && op <= 0x91: // f32 unary (abs, neg, ceil, floor, trunc, nearest, sqrt)
		return numericArity{pop: 1, push: 1}, true
	case op >= 0x92 && op <= 0x98: // f32 binary arithmetic
		return numericArity{pop: 2, push: 1}, true
	case op >= 0x99 && op <= 0x9f: // f64 unary
		return numericArity{pop: 1, push: 1}, true
	case op >= 0xa0 && op <= 0xa6: // f64 binary arithmetic
		return numericArity{pop: 2, push: 1}, true
	case op >= 0xa7 && op <= 0xbf: // conversions (all unary)
		return numericArity{pop: 1, push: 1}, true
	default:
		return numericArity{}, false
	}
}
