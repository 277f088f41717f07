package mempool

import (
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	p, _ := newTestPool(t)
	for i := 0; i < 10; i++ {
		_, err := p.Allocate(1)
		require.NoError(t, err)
	}
	s, err := p.Allocate(64)
	require.NoError(t, err)
	require.NoError(t, p.Free(s))

	m := p.Metrics()
	require.Equal(t, 0.9, m.Ratio())
	require.Equal(t, uint64(1), m.LargeAllocs())
	require.Equal(t, uint64(1), m.LargeFrees())

	sizes := m.RequestSizes()
	require.Equal(t, int64(11), sizes.Count)
	require.Equal(t, int64(4), sizes.Min)
	require.Equal(t, int64(256), sizes.Max)

	str := m.String()
	require.Contains(t, str, "hit: 9 ")
	require.Contains(t, str, "chunks-acquired: 1 ")
	require.Contains(t, str, "system-bytes: "+humanize.IBytes(uint64(p.ChunkBytes()+256))+" ")
	require.Contains(t, str, "hit-ratio: 0.90")

	m.Clear()
	require.Zero(t, m.Hits())
	require.Zero(t, m.RequestSizes().Count)
	require.Zero(t, m.Ratio())
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.add(poolHit, 1)
	m.trackRequest(8)
	m.Clear()
	require.Zero(t, m.Hits())
	require.Zero(t, m.Ratio())
	require.Nil(t, m.RequestSizes())
	require.Equal(t, "", m.String())
}
