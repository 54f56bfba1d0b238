package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadLimits_minOnly(t *testing.T) {
	d := newTestDecoder(concat([]byte{0x00}, lebU(3)))
	min, max, err := d.readLimits()
	require.NoError(t, err)
	require.Equal(t, uint32(3), min)
	require.Nil(t, max)
}

func TestReadLimits_minAndMax(t *testing.T) {
	d := newTestDecoder(concat([]byte{0x01}, lebU(1), lebU(5)))
	min, max, err := d.readLimits()
	require.NoError(t, err)
	require.Equal(t, uint32(1), min)
	require.NotNil(t, max)
	require.Equal(t, uint32(5), *max)
}

func TestReadLimits_badPrefix(t *testing.T) {
	d := newTestDecoder([]byte{0x02})
	_, _, err := d.readLimits()
	require.Error(t, err)
}
