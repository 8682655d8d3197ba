package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceRegion(t *testing.T) {
	region := NewSliceRegion(64 * KB)
	require.NotNil(t, region)
	data := region.Bytes()
	require.Equal(t, 64*KB, len(data))
	data[0] = 0xFF
	data[len(data)-1] = 0xFF
	require.NoError(t, region.Release())
	require.Nil(t, region.Bytes())
}

func TestSliceRegionZeroSize(t *testing.T) {
	require.Nil(t, NewSliceRegion(0))
}
