package binary

import "github.com/modwasm/modwasm/internal/wasm"

// constExprKind distinguishes the two legal producers of a constant
// expression that this decoder resolves immediately (a plain numeric
// constant) from the one that may require linker cooperation (a
// global.get of an imported global).
type constExprKind int

const (
	constExprNumeric constExprKind = iota
	constExprGlobalGet
)

// constExpr is the result of parsing a constant initializer expression:
// a single const instruction or global.get, followed by END.
type constExpr struct {
	Kind        constExprKind
	ValueType   byte  // only set for Kind == constExprNumeric
	RawValue    int64 // the raw 64-bit payload, for Kind == constExprNumeric
	GlobalIndex uint32
}

// readConstExpr parses a constant expression used by global initializers,
// and by element/data segment offsets. Legal producers: i32.const, i64.const,
// f32.const, f64.const, global.get of an imported constant global.
func (d *decoder) readConstExpr() (constExpr, error) {
	op, err := d.r.read1()
	if err != nil {
		return constExpr{}, err
	}

	var e constExpr
	switch op {
	case opI32Const:
		v, _, err := d.r.readSignedInt32()
		if err != nil {
			return constExpr{}, err
		}
		e = constExpr{Kind: constExprNumeric, ValueType: 0x7f /* i32 */, RawValue: int64(uint32(v))}
	case opI64Const:
		v, _, err := d.r.readSignedInt64()
		if err != nil {
			return constExpr{}, err
		}
		e = constExpr{Kind: constExprNumeric, ValueType: 0x7e /* i64 */, RawValue: v}
	case opF32Const:
		v, err := d.r.readFloat32AsInt32()
		if err != nil {
			return constExpr{}, err
		}
		e = constExpr{Kind: constExprNumeric, ValueType: 0x7d /* f32 */, RawValue: int64(uint32(v))}
	case opF64Const:
		v, err := d.r.readFloat64AsInt64()
		if err != nil {
			return constExpr{}, err
		}
		e = constExpr{Kind: constExprNumeric, ValueType: 0x7c /* f64 */, RawValue: v}
	case opGlobalGet:
		idx, err := d.r.readUnsignedInt32()
		if err != nil {
			return constExpr{}, err
		}
		e = constExpr{Kind: constExprGlobalGet, GlobalIndex: idx}
	default:
		return constExpr{}, wasm.Malformedf("invalid constant-expression opcode 0x%02x", op)
	}

	end, err := d.r.read1()
	if err != nil {
		return constExpr{}, err
	}
	if end != opEnd {
		return constExpr{}, wasm.Malformedf("constant expression not terminated by end (0x0b), got 0x%02x", end)
	}
	return e, nil
}

// readI32ConstOrGlobalGetOffset parses the restricted offset-expression
// grammar used by element and data segments: i32.const n, or global.get g.
// It is a narrower subset of readConstExpr's grammar (no i64/f32/f64
// producers make sense as a table/memory offset).
func (d *decoder) readI32ConstOrGlobalGetOffset() (constExpr, error) {
	e, err := d.readConstExpr()
	if err != nil {
		return constExpr{}, err
	}
	if e.Kind == constExprNumeric && e.ValueType != 0x7f {
		return constExpr{}, wasm.Malformedf("offset expression must produce i32, got value type 0x%02x", e.ValueType)
	}
	return e, nil
}
