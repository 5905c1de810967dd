package rag

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pdfchat/internal/chains"
	"pdfchat/internal/chunker"
	"pdfchat/internal/config"
	"pdfchat/internal/helper"
	"pdfchat/internal/index"
	"pdfchat/internal/llmservice"
	"pdfchat/internal/models"
	"pdfchat/internal/parser"
	"pdfchat/internal/session"
	"pdfchat/internal/storage"
)

// Service drives the document-to-answer pipeline: session lifecycle,
// upload, extraction, chunking, indexing, retrieval and generation.
type Service struct {
	cfg      *config.Config
	sessions session.Store
	files    *storage.FileStore
	index    *index.Store
	chunker  *chunker.Chunker
	caller   *llmservice.Caller
	locks    keyedLocks
}

func NewService(cfg *config.Config, sessions session.Store, files *storage.FileStore, idx *index.Store, caller *llmservice.Caller) *Service {
	return &Service{
		cfg:      cfg,
		sessions: sessions,
		files:    files,
		index:    idx,
		chunker:  chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		caller:   caller,
	}
}

// CreateSession registers a fresh session with an empty file list.
func (s *Service) CreateSession(ctx context.Context) (*models.Session, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	sess := &models.Session{
		ID:        id,
		Files:     []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	log.Info().Str("session_id", id).Msg("Created session")
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.sessions.Get(ctx, id)
}

// Upload stores one document for the session and appends it to the file
// list. Repeated uploads accumulate.
func (s *Service) Upload(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	lock := s.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}

	path, err := s.files.Save(id, filename, r)
	if err != nil {
		return "", err
	}

	sess.Files = append(sess.Files, path)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("recording upload: %w", err)
	}
	log.Info().Str("session_id", id).Str("file", path).Msg("Stored upload")
	return path, nil
}

// Process runs extraction, chunking and index building for the session's
// uploaded documents and returns the chunk count. The session is marked
// processed only after the index is fully committed: a failure partway
// leaves the session unprocessed and nothing queryable.
func (s *Service) Process(ctx context.Context, id string) (int, error) {
	lock := s.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(sess.Files) == 0 {
		return 0, models.ErrNoFiles
	}

	log.Info().Str("session_id", id).Int("files", len(sess.Files)).Msg("Processing documents")

	text, err := parser.ExtractAll(sess.Files)
	if err != nil {
		return 0, err
	}

	chunks, err := s.chunker.Split(text)
	if err != nil {
		return 0, err
	}

	count, err := s.index.Build(ctx, id, chunks)
	if err != nil {
		return 0, err
	}

	sess.Processed = true
	sess.IndexPath = s.index.Path(id)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return 0, fmt.Errorf("marking session processed: %w", err)
	}

	log.Info().Str("session_id", id).Int("chunks", count).Msg("Processing complete")
	return count, nil
}

// Chat answers a question over the session's processed documents. The
// effective mode is auto-detected from the question text, falling back to
// the caller-specified mode.
func (s *Service) Chat(ctx context.Context, id, question string, mode models.Mode, numQuestions int) (*models.ChatResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, models.ErrEmptyQuestion
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Processed {
		return nil, models.ErrNotProcessed
	}

	retrieved, err := s.index.Query(ctx, id, question, s.cfg.RAG.TopK)
	if err != nil {
		return nil, err
	}

	contexts := make([]string, len(retrieved))
	for i, r := range retrieved {
		contexts[i] = r.Content
	}

	resolved := chains.DetectMode(question, mode)
	prompt, err := chains.Build(models.GenerationRequest{
		Mode:         resolved,
		Context:      contexts,
		Question:     question,
		NumQuestions: numQuestions,
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("session_id", id).
		Str("mode", string(resolved)).
		Int("context_chunks", len(contexts)).
		Msg("Generating response")

	answer, err := s.caller.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Mode:     resolved,
		Question: question,
		Answer:   answer,
	}, nil
}

// DeleteSession removes the session, its stored documents and its
// persisted index. All further operations on the id fail with
// models.ErrSessionNotFound.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	lock := s.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	if err := s.files.Remove(id); err != nil {
		return fmt.Errorf("removing uploads: %w", err)
	}
	if err := s.index.Delete(id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.locks.drop(id)
	log.Info().Str("session_id", id).Msg("Deleted session")
	return nil
}
