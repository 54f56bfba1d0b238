package binary

import (
	"testing"

	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
	"github.com/stretchr/testify/require"
)

func TestDecodeImportSection_function(t *testing.T) {
	buf := concat(
		lebU(1),
		name("env"), name("log"), []byte{api.ExternTypeFunc}, lebU(0),
	)
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeImportSection())
	require.Len(t, d.symbols.Functions, 1)
	require.True(t, d.symbols.Functions[0].IsImported)
	require.Equal(t, "env", d.symbols.Functions[0].Module)
	require.Equal(t, "log", d.symbols.Functions[0].Name)
	require.EqualValues(t, 1, d.symbols.NumImportedFunctions)
}

func TestDecodeImportSection_table(t *testing.T) {
	buf := concat(
		lebU(1),
		name("env"), name("tbl"), []byte{api.ExternTypeTable}, []byte{api.FuncRef}, []byte{0x00}, lebU(2),
	)
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeImportSection())
	require.Len(t, d.symbols.Tables, 1)
	require.True(t, d.symbols.Tables[0].IsImported)
}

func TestDecodeImportSection_memory(t *testing.T) {
	buf := concat(
		lebU(1),
		name("env"), name("mem"), []byte{api.ExternTypeMemory}, []byte{0x00}, lebU(1),
	)
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeImportSection())
	require.Len(t, d.symbols.Memories, 1)
}

func TestDecodeImportSection_global(t *testing.T) {
	buf := concat(
		lebU(1),
		name("env"), name("g"), []byte{api.ExternTypeGlobal}, []byte{api.ValueTypeI32}, []byte{0x00},
	)
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeImportSection())
	require.Len(t, d.symbols.Globals, 1)
	require.Equal(t, wasm.ImportedUnresolved, d.symbols.Globals[0].Resolution)
	require.Equal(t, "env", d.symbols.Globals[0].Module)
	require.Equal(t, "g", d.symbols.Globals[0].Name)
}

func TestDecodeImportSection_secondTableRejected(t *testing.T) {
	d := newTestDecoder(nil)
	require.NoError(t, d.symbols.ImportTable(0, nil))
	buf := concat(
		lebU(1),
		name("env"), name("tbl2"), []byte{api.ExternTypeTable}, []byte{api.FuncRef}, []byte{0x00}, lebU(0),
	)
	d.r = newReader(buf)
	require.Error(t, d.decodeImportSection())
}
