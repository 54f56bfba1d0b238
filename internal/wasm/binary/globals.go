package binary

import "github.com/modwasm/modwasm/internal/wasm"

// decodeGlobalSection implements the two-phase global initialization
// protocol. Every entry is (value_type, mutability, init_expr).
// Numeric initializers resolve immediately. A global.get of an imported
// global resolves immediately too if that import has already reached
// RESOLVED by the time this decode pass reaches it; otherwise the new
// global is marked UNRESOLVED_GET and a back-reference is recorded for a
// linker-owned continuation to complete later.
func (d *decoder) decodeGlobalSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		vt, err := d.readValueType()
		if err != nil {
			return err
		}
		mut, err := d.readMutability()
		if err != nil {
			return err
		}
		expr, err := d.readConstExpr()
		if err != nil {
			return err
		}

		switch expr.Kind {
		case constExprNumeric:
			if expr.ValueType != vt {
				return wasm.Malformedf("global initializer produces value type 0x%02x but global declares 0x%02x", expr.ValueType, vt)
			}
			index := d.symbols.DeclareGlobal(d.ctx, vt, mut, wasm.Declared)
			addr := d.symbols.GlobalAddress(index)
			if d.ctx != nil && d.ctx.Globals() != nil {
				d.ctx.Globals().StoreLong(addr, expr.RawValue)
			}

		case constExprGlobalGet:
			ref := expr.GlobalIndex
			if ref >= d.symbols.MaxGlobalIndex() {
				return wasm.Malformedf("global.get references out-of-range global index %d", ref)
			}
			refGlobal := d.symbols.Globals[ref]

			// Declared and ImportedResolved carry a known value just like
			// Resolved. In a plain single-pass decode imports are still
			// ImportedUnresolved at this point, so the extra states match
			// only when the embedder resolved imports before this section
			// (or the referenced global is an earlier entry of it).
			if refGlobal.Resolution == wasm.Resolved || refGlobal.Resolution == wasm.Declared || refGlobal.Resolution == wasm.ImportedResolved {
				if refGlobal.Type != vt {
					return wasm.Linkerf("global.get initializer type mismatch: declared 0x%02x but referenced global is 0x%02x", vt, refGlobal.Type)
				}
				var raw int64
				if d.ctx != nil && d.ctx.Globals() != nil {
					raw = d.ctx.Globals().LoadAsLong(refGlobal.Address)
				}
				index := d.symbols.DeclareGlobal(d.ctx, vt, mut, wasm.Declared)
				addr := d.symbols.GlobalAddress(index)
				if d.ctx != nil && d.ctx.Globals() != nil {
					d.ctx.Globals().StoreLong(addr, raw)
				}
			} else {
				index := d.symbols.DeclareGlobal(d.ctx, vt, mut, wasm.UnresolvedGet)
				d.symbols.UnresolvedGlobalBackrefs[index] = ref
			}
		}
	}
	return nil
}
