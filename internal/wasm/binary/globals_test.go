package binary

import (
	"testing"

	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
	"github.com/stretchr/testify/require"
)

func TestDecodeGlobalSection_numericInitializer(t *testing.T) {
	buf := concat(
		lebU(1),
		[]byte{api.ValueTypeI32}, []byte{0x00}, []byte{opI32Const}, lebI(42), []byte{opEnd},
	)
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeGlobalSection())
	require.Len(t, d.symbols.Globals, 1)
	require.Equal(t, wasm.Declared, d.symbols.Globals[0].Resolution)
	require.Equal(t, int64(42), d.ctx.Globals().LoadAsLong(d.symbols.Globals[0].Address))
}

func TestDecodeGlobalSection_typeMismatch(t *testing.T) {
	buf := concat(
		lebU(1),
		[]byte{api.ValueTypeI64}, []byte{0x00}, []byte{opI32Const}, lebI(1), []byte{opEnd},
	)
	d := newTestDecoder(buf)
	require.Error(t, d.decodeGlobalSection())
}

func TestDecodeGlobalSection_globalGetResolvedImport(t *testing.T) {
	d := newTestDecoder(nil)
	idx := d.symbols.DeclareGlobal(d.ctx, api.ValueTypeI32, api.Const, wasm.ImportedResolved)
	d.ctx.Globals().StoreLong(d.symbols.GlobalAddress(idx), 7)

	buf := concat(lebU(1), []byte{api.ValueTypeI32}, []byte{0x00}, []byte{opGlobalGet}, lebU(idx), []byte{opEnd})
	d.r = newReader(buf)
	require.NoError(t, d.decodeGlobalSection())
	require.Len(t, d.symbols.Globals, 2)
	require.Equal(t, wasm.Declared, d.symbols.Globals[1].Resolution)
	require.Equal(t, int64(7), d.ctx.Globals().LoadAsLong(d.symbols.Globals[1].Address))
}

func TestDecodeGlobalSection_globalGetUnresolvedImport(t *testing.T) {
	d := newTestDecoder(nil)
	idx := d.symbols.DeclareGlobal(d.ctx, api.ValueTypeI32, api.Const, wasm.ImportedUnresolved)

	buf := concat(lebU(1), []byte{api.ValueTypeI32}, []byte{0x00}, []byte{opGlobalGet}, lebU(idx), []byte{opEnd})
	d.r = newReader(buf)
	require.NoError(t, d.decodeGlobalSection())
	require.Len(t, d.symbols.Globals, 2)
	require.Equal(t, wasm.UnresolvedGet, d.symbols.Globals[1].Resolution)
	require.Equal(t, idx, d.symbols.UnresolvedGlobalBackrefs[1])
}

func TestDecodeGlobalSection_globalGetOutOfRange(t *testing.T) {
	buf := concat(lebU(1), []byte{api.ValueTypeI32}, []byte{0x00}, []byte{opGlobalGet}, lebU(9), []byte{opEnd})
	d := newTestDecoder(buf)
	require.Error(t, d.decodeGlobalSection())
}
