package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// decodeImportSection reads the vector of (module, name, kind, payload)
// 4-tuples.
func (d *decoder) decodeImportSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		moduleName, err := d.r.readName()
		if err != nil {
			return err
		}
		memberName, err := d.r.readName()
		if err != nil {
			return err
		}
		kind, err := d.readExternType()
		if err != nil {
			return err
		}

		switch kind {
		case api.ExternTypeFunc:
			typeIndex, err := d.r.readUnsignedInt32()
			if err != nil {
				return err
			}
			d.symbols.ImportFunction(moduleName, memberName, typeIndex)

		case api.ExternTypeTable:
			if _, err := d.readRefType(); err != nil {
				return err
			}
			min, max, err := d.readLimits()
			if err != nil {
				return err
			}
			if err := d.symbols.ImportTable(min, max); err != nil {
				return err
			}

		case api.ExternTypeMemory:
			min, max, err := d.readLimits()
			if err != nil {
				return err
			}
			if err := d.symbols.ImportMemory(min, max); err != nil {
				return err
			}

		case api.ExternTypeGlobal:
			vt, err := d.readValueType()
			if err != nil {
				return err
			}
			mut, err := d.readMutability()
			if err != nil {
				return err
			}
			index := d.symbols.DeclareGlobal(d.ctx, vt, mut, wasm.ImportedUnresolved)
			d.symbols.Globals[index].Module = moduleName
			d.symbols.Globals[index].Name = memberName
			if d.ctx != nil && d.ctx.Linker() != nil {
				d.ctx.Linker().ImportGlobal(moduleName, memberName, index, vt, mut)
			}
		}
	}
	return nil
}
