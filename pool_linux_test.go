package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinywheels/mempool/z"
)

func TestMmapBackedPool(t *testing.T) {
	base := z.NumAllocBytes()
	p, err := New[int64](&Config{System: MmapAllocator{}})
	require.NoError(t, err)

	small, err := p.Allocate(3)
	require.NoError(t, err)
	small[2] = 7
	large, err := p.Allocate(1000)
	require.NoError(t, err)
	large[999] = 9
	require.Equal(t, base+int64(p.ChunkBytes()+8000), z.NumAllocBytes())

	require.NoError(t, p.Free(small))
	require.NoError(t, p.Deallocate(large, 1000))
	require.NoError(t, p.Teardown())
	require.Equal(t, base, z.NumAllocBytes())
}
