package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// readValueType reads and validates a single value-type tag byte.
func (d *decoder) readValueType() (api.ValueType, error) {
	b, err := d.r.read1()
	if err != nil {
		return 0, err
	}
	switch b {
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
		return b, nil
	default:
		return 0, wasm.Malformedf("invalid value type 0x%02x", b)
	}
}

// readRefType reads and validates a table element type; module version 1
// allows only FuncRef.
func (d *decoder) readRefType() (api.RefType, error) {
	b, err := d.r.read1()
	if err != nil {
		return 0, err
	}
	if b != api.FuncRef {
		return 0, wasm.Malformedf("invalid table element type 0x%02x, only funcref is supported", b)
	}
	return b, nil
}

// readExternType reads and validates an import/export kind byte.
func (d *decoder) readExternType() (api.ExternType, error) {
	b, err := d.r.read1()
	if err != nil {
		return 0, err
	}
	switch b {
	case api.ExternTypeFunc, api.ExternTypeTable, api.ExternTypeMemory, api.ExternTypeGlobal:
		return b, nil
	default:
		return 0, wasm.Malformedf("invalid import/export kind 0x%02x", b)
	}
}

// readMutability reads and validates a mutability byte (0x00 const, 0x01 mutable).
func (d *decoder) readMutability() (api.Mutability, error) {
	b, err := d.r.read1()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return api.Const, nil
	case 0x01:
		return api.Mutable, nil
	default:
		return false, wasm.Malformedf("invalid mutability byte 0x%02x", b)
	}
}
