package mempool

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpFreeLists(t *testing.T) {
	var buf bytes.Buffer
	p, err := New[int32](&Config{LogOutput: &buf})
	require.NoError(t, err)
	defer p.Teardown()

	p.DumpFreeLists(-1)
	require.Equal(t, "mempool: free list not initialized\n", buf.String())

	_, err = p.Allocate(1)
	require.NoError(t, err)

	buf.Reset()
	p.DumpFreeLists(0)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "mempool: free_list[0] = 0x"))
	require.True(t, strings.HasSuffix(lines[0], " -> nil"))
	require.Equal(t, 9, strings.Count(lines[0], "->"))
	require.Equal(t, "mempool: =========================", lines[1])

	buf.Reset()
	p.DumpFreeLists(-1)
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, p.NumClasses()+1)
	require.Equal(t, "mempool: free_list[15] = nil", lines[15])

	buf.Reset()
	p.DumpFreeLists(99)
	require.Contains(t, buf.String(), "no size class 99")

	// Silenced.
	buf.Reset()
	p.SetLogOutput(nil)
	p.DumpFreeLists(-1)
	require.Zero(t, buf.Len())
}

func TestTeardownIsLogged(t *testing.T) {
	var buf bytes.Buffer
	p, err := New[int32](&Config{LogOutput: &buf})
	require.NoError(t, err)
	_, err = p.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, p.Teardown())
	require.Contains(t, buf.String(), "released 1 chunks")
}

func TestDetailedMapJSON(t *testing.T) {
	p, err := New[int32](nil)
	require.NoError(t, err)
	defer p.Teardown()

	out, err := p.DetailedMapJSON()
	require.NoError(t, err)
	var m struct {
		Align       int
		Threshold   int
		BlockNumber int
		ChunkBytes  int
		Initialized bool
		Chunks      []struct{ Index, Used int }
		FreeLists   map[string][]struct{ Chunk, Offset int }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.False(t, m.Initialized)
	require.Empty(t, m.Chunks)

	_, err = p.Allocate(1)
	require.NoError(t, err)
	_, err = p.Allocate(5)
	require.NoError(t, err)

	out, err = p.DetailedMapJSON()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Equal(t, 8, m.Align)
	require.Equal(t, 128, m.Threshold)
	require.Equal(t, 20, m.BlockNumber)
	require.True(t, m.Initialized)
	require.Len(t, m.Chunks, 1)
	require.Equal(t, 10*8+10*24, m.Chunks[0].Used)
	require.Len(t, m.FreeLists, 2)
	require.Len(t, m.FreeLists["8"], 9)
	require.Len(t, m.FreeLists["24"], 9)
	require.Equal(t, 8, m.FreeLists["8"][0].Offset)
	require.Equal(t, 80+24, m.FreeLists["24"][0].Offset)
}

func TestStatsString(t *testing.T) {
	p, err := New[int32](nil)
	require.NoError(t, err)
	defer p.Teardown()
	_, err = p.Allocate(1)
	require.NoError(t, err)
	st := p.Stats()
	require.Equal(t, "chunks: 1 (21 KiB) cursor-left: 21 KiB free-blocks: 9", st.String())
	require.Equal(t, 9*8, st.FreeBytes(p.Align()))
}
