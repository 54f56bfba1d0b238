package binary

import "github.com/modwasm/modwasm/internal/wasm"

// decodeTableSection reads the vector of declared tables,
// enforcing the at-most-one-table cardinality invariant before decoding
// limits: a second table declared anywhere is fatal.
func (d *decoder) decodeTableSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if d.symbols.TableExists() {
			return wasm.Malformedf("at most one table per module")
		}
		if _, err := d.readRefType(); err != nil {
			return err
		}
		min, max, err := d.readLimits()
		if err != nil {
			return err
		}
		if err := d.symbols.AllocateTable(min, max); err != nil {
			return err
		}
	}
	return nil
}
