package binary

// decodeMemorySection reads the vector of declared linear memories,
// enforcing the at-most-one-memory cardinality invariant.
func (d *decoder) decodeMemorySection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		min, max, err := d.readLimits()
		if err != nil {
			return err
		}
		if err := d.symbols.AllocateMemory(min, max); err != nil {
			return err
		}
	}
	return nil
}
