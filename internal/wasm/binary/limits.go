package binary

import "github.com/modwasm/modwasm/internal/wasm"

// readLimits reads the "limits" production shared by table and memory
// declarations: a prefix byte (0x00 = min only, 0x01 = min and max) followed
// by one or two LEB128 integers. Any other prefix byte is fatal.
func (d *decoder) readLimits() (min uint32, max *uint32, err error) {
	prefix, err := d.r.read1()
	if err != nil {
		return 0, nil, err
	}
	switch prefix {
	case 0x00:
		min, err = d.r.readUnsignedInt32()
		if err != nil {
			return 0, nil, err
		}
		return min, nil, nil
	case 0x01:
		min, err = d.r.readUnsignedInt32()
		if err != nil {
			return 0, nil, err
		}
		m, err := d.r.readUnsignedInt32()
		if err != nil {
			return 0, nil, err
		}
		return min, &m, nil
	default:
		return 0, nil, wasm.Malformedf("invalid limits prefix 0x%02x", prefix)
	}
}
