package binary

// decodeFunctionSection reads a vector of type indices; each produces a
// declared function record bound to the given signature. Code entries are
// associated later by position once the code section is decoded.
func (d *decoder) decodeFunctionSection() error {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typeIndex, err := d.r.readUnsignedInt32()
		if err != nil {
			return err
		}
		d.symbols.DeclareFunction(typeIndex)
	}
	return nil
}
