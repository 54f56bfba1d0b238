package binary

// decodeStartSection reads the single function index identifying the
// module's start function.
func (d *decoder) decodeStartSection() error {
	index, err := d.r.readUnsignedInt32()
	if err != nil {
		return err
	}
	d.symbols.SetStartFunction(index)
	return nil
}
