package binary

import "github.com/modwasm/modwasm/internal/wasm"

// decodeDataSection reads the vector of data segments. Unlike
// element segments, global.get in a data-segment offset is currently
// unsupported and is a fatal LinkerError at decode time — a known gap,
// preserved deliberately rather than silently plumbed through.
func (d *decoder) decodeDataSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		memIndex, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		if memIndex != 0 {
			return wasm.Malformedf("data segment memory index must be 0, got %d", memIndex)
		}

		offset, err := d.readConstExpr()
		if err != nil {
			return err
		}
		if offset.Kind == constExprGlobalGet {
			return wasm.Linkerf("global.get is not supported in data-segment offsets")
		}
		if offset.ValueType != 0x7f {
			return wasm.Malformedf("data segment offset must produce i32, got value type 0x%02x", offset.ValueType)
		}

		size, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		bytes, err := d.r.readBytes(int(size))
		if err != nil {
			return err
		}

		base := uint32(offset.RawValue)
		if d.ctx != nil && d.ctx.Memory() != nil {
			mem := d.ctx.Memory()
			if err := mem.ValidateAddress(base, uint32(len(bytes))); err != nil {
				return err
			}
			for j, b := range bytes {
				mem.StoreI32_8(base+uint32(j), b)
			}
		}
	}
	return nil
}
