package z

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalloc(t *testing.T) {
	StatsPrint()
	base := NumAllocBytes()

	buf1 := Calloc(128)
	require.Len(t, buf1, 128)
	require.Equal(t, base+128, NumAllocBytes())
	buf2 := Calloc(128)
	require.Equal(t, base+256, NumAllocBytes())
	for _, b := range buf2 {
		require.Zero(t, b)
	}

	Free(buf1)
	require.Equal(t, base+128, NumAllocBytes())
	Free(buf2)
	require.Equal(t, base, NumAllocBytes())

	// Freeing nothing is a no-op.
	Free(nil)
	require.Equal(t, base, NumAllocBytes())
}
