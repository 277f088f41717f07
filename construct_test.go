package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type tracked struct {
	id    int32
	score float32
}

var destroyed []int32

func (t *tracked) Destroy() {
	destroyed = append(destroyed, t.id)
}

func TestConstructDestruct(t *testing.T) {
	p, err := New[tracked](nil)
	require.NoError(t, err)
	defer p.Teardown()

	s, err := p.Allocate(5)
	require.NoError(t, err)
	p.ConstructFunc(s, 5, func(i int, e *tracked) {
		e.id = int32(i)
		e.score = 0.5
	})
	require.Equal(t, tracked{id: 4, score: 0.5}, s[4])

	before := p.Stats()
	destroyed = nil
	p.Destruct(s, 5)
	require.Equal(t, []int32{0, 1, 2, 3, 4}, destroyed)
	for i := range s {
		require.Equal(t, tracked{}, s[i])
	}
	// Destruct leaves the memory allocated.
	require.Equal(t, before, p.Stats())

	p.ConstructWith(s, 3, tracked{id: 7, score: 1})
	require.Equal(t, []tracked{{7, 1}, {7, 1}, {7, 1}, {}, {}}, s)
	p.Construct(s, 2)
	require.Equal(t, []tracked{{}, {}, {7, 1}, {}, {}}, s)

	destroyed = nil
	p.Destruct(s, 3)
	require.Equal(t, []int32{0, 0, 7}, destroyed)

	require.NoError(t, p.Deallocate(s, 5))
}

func TestDestructWithoutDestroyer(t *testing.T) {
	p, err := New[float64](nil)
	require.NoError(t, err)
	defer p.Teardown()

	s, err := p.Allocate(4)
	require.NoError(t, err)
	p.ConstructWith(s, 4, 2.5)
	require.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, s)
	p.Destruct(s, 4)
	require.Equal(t, []float64{0, 0, 0, 0}, s)
	require.NoError(t, p.Free(s))
}
