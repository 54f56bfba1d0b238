package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// decodeExportSection reads the vector of (name, kind, index) triples.
// Memory exports are accepted but currently discarded — a known gap, not
// silently fixed here.
func (d *decoder) decodeExportSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := d.r.readName()
		if err != nil {
			return err
		}
		kind, err := d.readExternType()
		if err != nil {
			return err
		}
		index, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}

		switch kind {
		case api.ExternTypeFunc:
			d.symbols.ExportFunction(name, index)
		case api.ExternTypeTable:
			if !d.symbols.TableExists() {
				return wasm.Malformedf("export %q: module has no table", name)
			}
			if index != 0 {
				return wasm.Malformedf("export %q: table index must be 0, got %d", name, index)
			}
			d.symbols.ExportTable(name, index)
		case api.ExternTypeMemory:
			// Accepted, intentionally dropped.
		case api.ExternTypeGlobal:
			d.symbols.ExportGlobal(name, index)
		}
	}
	return nil
}
