package ingest

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopProgress(t *testing.T) {
	progress := NewNoopProgress()
	assert.NoError(t, progress.Add(3))
	progress.Close()
}

func TestBarProgress(t *testing.T) {
	progress := newBarProgress(3, io.Discard)
	for range 3 {
		require.NoError(t, progress.Add(1))
	}
	progress.Close()
}

func TestBarProgressUnknownTotal(t *testing.T) {
	progress := newBarProgress(-1, io.Discard)
	require.NoError(t, progress.Add(1))
	require.NoError(t, progress.Add(1))
	progress.Close()
}
