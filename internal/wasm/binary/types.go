package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

const funcTypeTag = 0x60

// decodeTypeSection reads the vector of function signatures.
// Each begins with the 0x60 tag, a parameter-type vector, and a result
// vector encoded in one of three producer-dependent shapes, all accepted:
//   - 0x40            -> empty result vector
//   - 0x00            -> empty result vector
//   - 0x01 <type>     -> one result
//
// A longer result vector is rejected; this module version allows at most
// one result value.
func (d *decoder) decodeTypeSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		tag, err := d.r.read1()
		if err != nil {
			return err
		}
		if tag != funcTypeTag {
			return wasm.Malformedf("invalid type section entry tag 0x%02x, want 0x60", tag)
		}

		paramCount, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		params := make([]api.ValueType, paramCount)
		for p := range params {
			if params[p], err = d.readValueType(); err != nil {
				return err
			}
		}

		results, err := d.readResultTypes()
		if err != nil {
			return err
		}

		idx := d.symbols.AllocateFunctionType(len(params), len(results))
		for p, vt := range params {
			d.symbols.RegisterFunctionTypeParameterType(idx, p, vt)
		}
		for r, vt := range results {
			d.symbols.RegisterFunctionTypeReturnType(idx, r, vt)
		}
	}
	return nil
}

// readResultTypes accepts the three observed encodings of a module-version-1
// result vector.
func (d *decoder) readResultTypes() ([]api.ValueType, error) {
	b, ok := d.r.peek1(0)
	if !ok {
		return nil, wasm.Malformedf("unexpected end of input reading result type")
	}
	switch b {
	case api.BlockTypeVoid:
		d.r.offset++
		return nil, nil
	case 0x00:
		d.r.offset++
		return nil, nil
	case 0x01:
		d.r.offset++
		vt, err := d.readValueType()
		if err != nil {
			return nil, err
		}
		return []api.ValueType{vt}, nil
	default:
		return nil, wasm.Malformedf("invalid result count 0x%02x, at most one result is supported", b)
	}
}
