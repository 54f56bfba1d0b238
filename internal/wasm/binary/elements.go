package binary

import "github.com/modwasm/modwasm/internal/wasm"

// decodeElementSection reads the vector of element segments.
// Each segment is (table_index=0, offset_expr, func_index_vector). When the
// offset is a plain i32.const, the function indices are written into the
// table immediately; when it is global.get, the write is always handed to
// the linker via TryInitializeElements, whatever that global's resolution.
func (d *decoder) decodeElementSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		tableIndex, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		if tableIndex != 0 {
			return wasm.Malformedf("element segment table index must be 0, got %d", tableIndex)
		}

		offset, err := d.readI32ConstOrGlobalGetOffset()
		if err != nil {
			return err
		}

		n, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		funcIndices := make([]uint32, n)
		for j := range funcIndices {
			if funcIndices[j], err = d.r.readUnsignedInt32(); err != nil {
				return err
			}
		}

		switch offset.Kind {
		case constExprNumeric:
			if err := d.symbols.InitializeTableWithFunctions(d.ctx, uint32(offset.RawValue), funcIndices); err != nil {
				return err
			}
		case constExprGlobalGet:
			if d.ctx == nil || d.ctx.Linker() == nil {
				return wasm.Malformedf("element segment offset references global.get but no linker is available")
			}
			if err := d.ctx.Linker().TryInitializeElements(d.ctx, d.module, offset.GlobalIndex, funcIndices); err != nil {
				return err
			}
		}
	}
	return nil
}
