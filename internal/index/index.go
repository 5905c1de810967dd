package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdfchat/internal/embedding"
	"pdfchat/internal/models"
)

const (
	collectionName = "chunks"
	compress       = false
)

// Store manages one persisted chromem-go database per index key. Writes
// are committed atomically: the index is built in a temporary directory
// and renamed into place only on full success, so a failed build never
// leaves a partially built index queryable.
type Store struct {
	root     string
	embedder embeddings.Embedder
}

func NewStore(root string, embedder embeddings.Embedder) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating index root: %w", err)
	}
	return &Store{root: root, embedder: embedder}, nil
}

// Path returns the on-disk location for key's index.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, key)
}

// Exists reports whether a committed index is present for key.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.Path(key))
	return err == nil
}

// Build embeds every chunk, constructs the similarity-searchable structure
// and persists it under key, returning the chunk count. Vectors are
// normalized before indexing so search uses cosine similarity.
func (s *Store) Build(ctx context.Context, key string, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, models.ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("chunk-%d", c.ChunkID),
			Content:   c.Content,
			Embedding: embedding.Normalize(vectors[i]),
			Metadata:  map[string]string{"chunk_id": strconv.Itoa(c.ChunkID)},
		}
	}

	tmpPath := s.Path(key) + ".tmp"
	if err := os.RemoveAll(tmpPath); err != nil {
		return 0, fmt.Errorf("clearing stale build dir: %w", err)
	}

	db, err := chromem.NewPersistentDB(tmpPath, compress)
	if err != nil {
		return 0, fmt.Errorf("creating vector database: %w", err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("creating collection: %w", err)
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("adding documents: %w", err)
	}

	// commit
	if err := os.RemoveAll(s.Path(key)); err != nil {
		os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("removing previous index: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(key)); err != nil {
		os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("committing index: %w", err)
	}

	log.Info().Str("key", key).Int("chunks", len(docs)).Msg("Built vector index")
	return len(docs), nil
}

// Query loads the persisted index for key, embeds the query text with the
// same model and returns the k nearest chunks, most similar first. k
// defaults to models.DefaultTopK and is clamped to the number of stored
// chunks. An empty index yields an empty result, not an error.
func (s *Store) Query(ctx context.Context, key, queryText string, k int) ([]models.ScoredChunk, error) {
	if !s.Exists(key) {
		return nil, fmt.Errorf("%w: %s", models.ErrIndexNotFound, key)
	}

	db, err := chromem.NewPersistentDB(s.Path(key), compress)
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}
	collection := db.GetCollection(collectionName, nil)
	if collection == nil {
		return nil, fmt.Errorf("%w: %s has no %s collection", models.ErrIndexNotFound, key, collectionName)
	}

	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = models.DefaultTopK
	}
	if k > count {
		k = count
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := collection.QueryEmbedding(ctx, embedding.Normalize(queryVector), k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying by similarity: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(results))
	for _, r := range results {
		chunkID, _ := strconv.Atoi(r.Metadata["chunk_id"])
		scored = append(scored, models.ScoredChunk{
			Content:    r.Content,
			ChunkID:    chunkID,
			Similarity: r.Similarity,
		})
	}
	return scored, nil
}

// Delete removes the persisted index for key. Deleting a key that was
// never built is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return errors.New("empty index key")
	}
	if err := os.RemoveAll(s.Path(key)); err != nil {
		return fmt.Errorf("deleting index %s: %w", key, err)
	}
	return nil
}
