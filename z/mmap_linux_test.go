package z

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapAnonymous(t *testing.T) {
	base := NumAllocBytes()
	b, err := Mmap(1 << 16)
	require.NoError(t, err)
	require.Len(t, b, 1<<16)
	require.Equal(t, base+1<<16, NumAllocBytes())

	b[0], b[len(b)-1] = 0xAB, 0xCD
	require.Equal(t, byte(0xAB), b[0])
	require.Zero(t, b[1])

	require.NoError(t, Munmap(b))
	require.Equal(t, base, NumAllocBytes())

	require.Error(t, Munmap(nil))
}
