package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeFunctionSection(t *testing.T) {
	buf := concat(lebU(3), lebU(0), lebU(1), lebU(0))
	d := newTestDecoder(buf)
	require.NoError(t, d.decodeFunctionSection())
	require.Len(t, d.symbols.Functions, 3)
	require.EqualValues(t, 0, d.symbols.Functions[0].TypeIndex)
	require.EqualValues(t, 1, d.symbols.Functions[1].TypeIndex)
	require.EqualValues(t, 0, d.symbols.Functions[2].TypeIndex)
}
