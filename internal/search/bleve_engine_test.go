package search

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/blogr/internal/debuglog"
)

func TestRanked_IndexesAndSearches(t *testing.T) {
	r, err := NewRanked(sampleArticles(), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	n, err := r.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	res, err := r.Search("growth")
	require.NoError(t, err)
	require.Len(t, res, 2)
	// title hits outrank content hits
	assert.Equal(t, "1", res[0].Article.ID)
	assert.Equal(t, "4", res[1].Article.ID)
	assert.Greater(t, res[0].Score, res[1].Score)

	res, err = r.Search("investors")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Index)
}

func TestRanked_PrefixMatches(t *testing.T) {
	r, err := NewRanked(sampleArticles(), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	res, err := r.Search("mark")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "1", res[0].Article.ID)
}

func TestRanked_ShortQueryFallsBackToSubstring(t *testing.T) {
	r, err := NewRanked(sampleArticles(), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	res, err := r.Search("")
	require.NoError(t, err)
	assert.Len(t, res, 4)

	res, err = r.Search("x")
	require.NoError(t, err)
	assert.Equal(t, Filter(sampleArticles(), "x"), Articles(res))
}

func TestRanked_Limit(t *testing.T) {
	r, err := NewRanked(sampleArticles(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	res, err := r.Search("growth")
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestRanked_EmptySnapshot(t *testing.T) {
	r, err := NewRanked(nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	res, err := r.Search("growth")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRanked_LogsIndexedCount(t *testing.T) {
	var buf bytes.Buffer
	debuglog.SetOutput(debuglog.LevelDebug, &buf)
	t.Cleanup(func() { debuglog.SetOutput(debuglog.LevelOff, nil) })

	r, err := NewRanked(sampleArticles(), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	assert.Contains(t, buf.String(), "ranked index built with 4 of 4 articles")
}
