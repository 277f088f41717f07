package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	sys := &countingAllocator{}
	r := NewRegistry(&Config{System: sys})

	ints, err := PoolFor[int32](r)
	require.NoError(t, err)
	again, err := PoolFor[int32](r)
	require.NoError(t, err)
	require.Same(t, ints, again)

	floats, err := PoolFor[float64](r)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	_, err = PoolFor[string](r)
	require.ErrorIs(t, err, ErrPointerType)
	require.Equal(t, 2, r.Len())

	_, err = ints.Allocate(1)
	require.NoError(t, err)
	_, err = floats.Allocate(1)
	require.NoError(t, err)
	// Each element type has its own chunks.
	require.Equal(t, 2, sys.allocs)

	require.NoError(t, r.Teardown())
	require.Equal(t, 2, sys.frees)
	require.False(t, ints.Stats().Initialized)
	require.False(t, floats.Stats().Initialized)

	_, err = ints.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, 3, sys.allocs)
	require.NoError(t, r.Teardown())
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry(nil)
	p, err := PoolFor[uint16](r)
	require.NoError(t, err)
	require.Equal(t, 8, p.Align())
	require.Equal(t, 128, p.Threshold())
	require.NoError(t, r.Teardown())
}
