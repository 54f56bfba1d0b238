package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// tryJumpToSection walks the section headers of buf (skipping each payload
// by its declared size) and returns a reader positioned at the payload of
// the first section with the requested ID. The second return is false when
// no such section exists.
func tryJumpToSection(buf []byte, target SectionID) (*reader, bool, error) {
	r := newReader(buf)
	if _, err := r.readBytes(8); err != nil {
		return nil, false, err
	}
	for !r.isEOF() {
		idByte, err := r.read1()
		if err != nil {
			return nil, false, err
		}
		size, err := r.readUnsignedInt32()
		if err != nil {
			return nil, false, err
		}
		if SectionID(idByte) == target {
			return r, true, nil
		}
		if _, err := r.readBytes(int(size)); err != nil {
			return nil, false, err
		}
	}
	return nil, false, nil
}

// importedGlobalCount returns the length of the imported prefix of the
// global index space. Imported globals always precede declared ones because
// the import section precedes the global section.
func importedGlobalCount(symbols *wasm.SymbolTable) uint32 {
	var n uint32
	for _, g := range symbols.Globals {
		if g.Resolution != wasm.ImportedUnresolved && g.Resolution != wasm.ImportedResolved {
			break
		}
		n++
	}
	return n
}

// ResetGlobalState re-scans module's original byte buffer and rewrites the
// initial value of every declared global into ctx's process-wide globals
// array. Imported globals cannot be restored from the buffer: a mutable
// import, or an initializer reading a global that is mutable or still
// unresolved, is a LinkerError.
func ResetGlobalState(module *wasm.Module, ctx wasm.Context) error {
	symbols := module.Symbols
	imported := importedGlobalCount(symbols)
	for i := uint32(0); i < imported; i++ {
		if symbols.Globals[i].Mutability == api.Mutable {
			return wasm.Linkerf("cannot reset state of imported mutable global %d", i)
		}
	}

	r, found, err := tryJumpToSection(module.Bytes, SectionIDGlobal)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	d := &decoder{r: r, symbols: symbols, ctx: ctx, module: module}
	count, err := r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		index := imported + i
		if index >= symbols.MaxGlobalIndex() {
			return wasm.Malformedf("global section declares %d entries but the symbol table holds %d globals", count, symbols.MaxGlobalIndex())
		}
		if _, err := d.readValueType(); err != nil {
			return err
		}
		if _, err := d.readMutability(); err != nil {
			return err
		}
		expr, err := d.readConstExpr()
		if err != nil {
			return err
		}

		addr := symbols.GlobalAddress(index)
		switch expr.Kind {
		case constExprNumeric:
			if ctx != nil && ctx.Globals() != nil {
				ctx.Globals().StoreLong(addr, expr.RawValue)
			}
		case constExprGlobalGet:
			ref := expr.GlobalIndex
			if ref >= symbols.MaxGlobalIndex() {
				return wasm.Malformedf("global.get references out-of-range global index %d", ref)
			}
			refGlobal := symbols.Globals[ref]
			if refGlobal.Mutability == api.Mutable {
				return wasm.Linkerf("cannot reset global %d: its initializer reads mutable global %d", index, ref)
			}
			if refGlobal.Resolution == wasm.ImportedUnresolved || refGlobal.Resolution == wasm.UnresolvedGet {
				return wasm.Linkerf("cannot reset global %d: its initializer reads global %d, which is %s", index, ref, refGlobal.Resolution)
			}
			if ctx != nil && ctx.Globals() != nil {
				ctx.Globals().StoreLong(addr, ctx.Globals().LoadAsLong(refGlobal.Address))
			}
		}
	}
	return nil
}

// ResetMemoryState restores the module's linear memory to its
// post-instantiation contents by re-running the data section against ctx's
// memory. When zero is true the memory is cleared first, so bytes outside
// any data segment are also restored.
func ResetMemoryState(module *wasm.Module, ctx wasm.Context, zero bool) error {
	if zero && ctx != nil && ctx.Memory() != nil {
		ctx.Memory().Clear()
	}
	r, found, err := tryJumpToSection(module.Bytes, SectionIDData)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	d := &decoder{r: r, symbols: module.Symbols, ctx: ctx, module: module}
	return d.decodeDataSection()
}
