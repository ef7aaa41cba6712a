package decisionlog

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Tick  int    `json:"tick"`
	Path  string `json:"path"`
	Value float64
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Write(entry{Tick: 0, Path: "goal"}))
	require.NoError(t, w.Write(entry{Tick: 1, Path: "evaluate", Value: -1.5}))
	require.NoError(t, w.Close())

	got, err := ReadAll[entry](&buf)
	require.NoError(t, err)
	assert.Equal(t, []entry{{Tick: 0, Path: "goal"}, {Tick: 1, Path: "evaluate", Value: -1.5}}, got)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "decisions.jsonl.zst")
	w, err := Create(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Write(entry{Tick: i}))
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadAll[entry](f)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestWriteRejectsUnencodable(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	assert.Error(t, w.Write(make(chan int)))
	require.NoError(t, w.Close())
}
