package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig("align=16; threshold=64; block_number=4; system=mmap; metrics=true")
	require.NoError(t, err)
	require.Equal(t, 16, config.Align)
	require.Equal(t, 64, config.Threshold)
	require.Equal(t, 4, config.BlockNumber)
	require.True(t, config.Metrics)
	require.Equal(t, MmapAllocator{}, config.System)

	config, err = ParseConfig("")
	require.NoError(t, err)
	require.Zero(t, config.Align)
	require.Zero(t, config.Threshold)
	require.Equal(t, 20, config.BlockNumber)
	require.False(t, config.Metrics)
	require.Equal(t, HeapAllocator{}, config.System)

	p, err := New[int32](config)
	require.NoError(t, err)
	require.Equal(t, 8, p.Align())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig("aling=8")
	require.Error(t, err)
	_, err = ParseConfig("align=8; system=sbrk")
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseConfig("threshold=lots")
	require.Error(t, err)
	_, err = ParseConfig("metrics")
	require.Error(t, err)
}

func TestFlagHelp(t *testing.T) {
	require.Contains(t, FlagHelp, "block-number=20; ")
	require.Contains(t, FlagHelp, "system=heap; ")
}
