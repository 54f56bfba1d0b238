package wasm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisassemble_constantsAndLocals(t *testing.T) {
	// i32.const 7; local.get 0; i32.add; end
	entry := &CodeEntry{
		Opcodes:       []byte{0x41, 0x20, 0x6a, 0x0b},
		LongConstants: []int64{7, 0},
		ByteConstants: []byte{1, 1},
	}
	require.Equal(t, "i32.const 7\nlocal.get 0\ni32.add\nend", Disassemble(entry))
}

func TestDisassemble_loadOffset(t *testing.T) {
	// local.get 0; i32.load offset=4; end
	entry := &CodeEntry{
		Opcodes:       []byte{0x20, 0x28, 0x0b},
		LongConstants: []int64{0, 4},
		ByteConstants: []byte{1, 1, 1},
	}
	require.Equal(t, "local.get 0\ni32.load offset=4\nend", Disassemble(entry))
}

func TestDisassemble_branch(t *testing.T) {
	// block; br 0; end; end
	entry := &CodeEntry{
		Opcodes:       []byte{0x02, 0x0c, 0x0b, 0x0b},
		LongConstants: []int64{0},
		ByteConstants: []byte{1},
		IntConstants:  []int32{0, 0},
	}
	require.Equal(t, "block\nbr 0\nend\nend", Disassemble(entry))
}

func TestDisassemble_brTable(t *testing.T) {
	entry := &CodeEntry{
		Opcodes: []byte{0x0e, 0x0b},
		BranchTables: []BranchTable{{
			Targets: []BranchTarget{{LabelIndex: 0}, {LabelIndex: 1}},
			Default: BranchTarget{LabelIndex: 1},
		}},
	}
	require.Equal(t, "br_table 0 1 default=1\nend", Disassemble(entry))
}

func TestDisassemble_floatConstant(t *testing.T) {
	entry := &CodeEntry{
		Opcodes:       []byte{0x43, 0x0b},
		LongConstants: []int64{int64(math.Float32bits(1.5))},
	}
	require.Equal(t, "f32.const 1.5\nend", Disassemble(entry))
}

func TestDisassemble_empty(t *testing.T) {
	require.Equal(t, "", Disassemble(nil))
	require.Equal(t, "", Disassemble(&CodeEntry{}))
}
