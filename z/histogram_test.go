package z

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramBounds(t *testing.T) {
	require.Equal(t, []float64{2, 4, 8, 16}, HistogramBounds(1, 4))
}

func TestHistogramUpdate(t *testing.T) {
	h := NewHistogramData(HistogramBounds(3, 7))
	require.Equal(t, int64(math.MaxInt64), h.Min)

	for _, v := range []int64{4, 8, 16, 100, 128, 4096} {
		h.Update(v)
	}
	require.Equal(t, int64(6), h.Count)
	require.Equal(t, int64(4), h.Min)
	require.Equal(t, int64(4096), h.Max)
	require.Equal(t, int64(4+8+16+100+128+4096), h.Sum)
	// Buckets: [0,8) [8,16) [16,32) [32,64) [64,128) [128,inf)
	require.Equal(t, []int64{1, 1, 1, 0, 1, 2}, h.CountPerBucket)
}

func TestHistogramCopy(t *testing.T) {
	h := NewHistogramData(HistogramBounds(1, 4))
	h.Update(3)
	c := h.Copy()
	h.Update(20)
	require.Equal(t, int64(1), c.Count)
	require.Equal(t, int64(2), h.Count)
	require.Equal(t, 3.0, c.Mean())

	var nilHist *HistogramData
	require.Nil(t, nilHist.Copy())
	require.Equal(t, 0.0, nilHist.Mean())
}

func TestHistogramFprint(t *testing.T) {
	h := NewHistogramData(HistogramBounds(3, 4))
	var buf bytes.Buffer
	h.Fprint(&buf)
	require.Zero(t, buf.Len())

	h.Update(4)
	h.Update(40)
	h.Fprint(&buf)
	out := buf.String()
	require.Contains(t, out, "Min value: 4")
	require.Contains(t, out, "Max value: 40")
	require.Contains(t, out, "infinity")
}
