package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/embedding"
	"pdfchat/internal/models"
)

type failingEmbedder struct{}

func (failingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func chunksOf(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = models.Chunk{Content: t, ChunkID: i + 1}
	}
	return chunks
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), embedding.NewLocalEmbedder(128))
	require.NoError(t, err)
	return s
}

func TestBuildRejectsEmptyChunks(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Build(context.Background(), "sess", nil)
	assert.ErrorIs(t, err, models.ErrNoChunks)
	assert.False(t, s.Exists("sess"))
}

func TestBuildAndSelfRetrieval(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := chunksOf(
		"The quick brown fox jumps over the lazy dog",
		"Photosynthesis converts light energy into chemical energy",
		"Compilers translate source code into machine code",
	)
	count, err := s.Build(ctx, "sess", chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, s.Exists("sess"))

	// querying with the exact text of a known chunk ranks it first
	results, err := s.Query(ctx, "sess", chunks[1].Content, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, chunks[1].Content, results[0].Content)
	assert.Equal(t, 2, results[0].ChunkID)
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-3)
	// most similar first
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestQueryClampsK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Build(ctx, "sess", chunksOf("alpha beta", "gamma delta"))
	require.NoError(t, err)

	results, err := s.Query(ctx, "sess", "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQueryUnknownKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Query(context.Background(), "nope", "anything", 5)
	assert.ErrorIs(t, err, models.ErrIndexNotFound)
}

func TestBuildFailureLeavesNothingQueryable(t *testing.T) {
	root := t.TempDir()
	s, err := NewStore(root, failingEmbedder{})
	require.NoError(t, err)

	_, err = s.Build(context.Background(), "sess", chunksOf("some text"))
	require.Error(t, err)
	assert.False(t, s.Exists("sess"))

	good, err := NewStore(root, embedding.NewLocalEmbedder(128))
	require.NoError(t, err)
	_, err = good.Query(context.Background(), "sess", "some text", 5)
	assert.ErrorIs(t, err, models.ErrIndexNotFound)
}

func TestRebuildReplacesIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Build(ctx, "sess", chunksOf("old content about trains"))
	require.NoError(t, err)
	_, err = s.Build(ctx, "sess", chunksOf("new content about boats", "more boats"))
	require.NoError(t, err)

	results, err := s.Query(ctx, "sess", "boats", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.NotContains(t, r.Content, "trains")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Build(ctx, "sess", chunksOf("content"))
	require.NoError(t, err)
	require.NoError(t, s.Delete("sess"))
	assert.False(t, s.Exists("sess"))

	_, err = s.Query(ctx, "sess", "content", 5)
	assert.ErrorIs(t, err, models.ErrIndexNotFound)

	// deleting a key that was never built is fine
	assert.NoError(t, s.Delete("sess"))
}

func TestIndexesAreIsolatedPerKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Build(ctx, "a", chunksOf("session a text"))
	require.NoError(t, err)
	_, err = s.Build(ctx, "b", chunksOf("session b text"))
	require.NoError(t, err)

	require.NoError(t, s.Delete("a"))
	results, err := s.Query(ctx, "b", "session b text", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "session b text", results[0].Content)
}
