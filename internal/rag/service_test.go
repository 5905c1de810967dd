package rag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/index"
	"pdfchat/internal/llmservice"
	"pdfchat/internal/models"
	"pdfchat/internal/session"
	"pdfchat/internal/storage"
)

// recordingGenerator captures rendered prompts and returns a canned answer.
type recordingGenerator struct {
	prompts []string
	answer  string
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.answer, nil
}

func newTestService(t *testing.T, gen llmservice.Generator) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Storage.UploadDir = t.TempDir()
	cfg.Storage.IndexDir = t.TempDir()
	cfg.Storage.AllowedExtensions = []string{".txt", ".md"}

	files, err := storage.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.AllowedExtensions)
	require.NoError(t, err)
	idx, err := index.NewStore(cfg.Storage.IndexDir, embedding.NewLocalEmbedder(128))
	require.NoError(t, err)

	caller := llmservice.NewCaller(gen, 3, time.Second).WithSleep(func(time.Duration) {})
	return NewService(cfg, session.NewMemoryStore(), files, idx, caller)
}

func TestProcessBeforeUploadFailsValidation(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Process(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrNoFiles)
	assert.ErrorIs(t, err, models.ErrValidation)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Processed)
}

func TestUploadAccumulates(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Upload(ctx, sess.ID, "one.txt", strings.NewReader("first document "))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, sess.ID, "two.txt", strings.NewReader("second document "))
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Files, 2)
}

func TestEndToEndSkyIsBlue(t *testing.T) {
	gen := &recordingGenerator{answer: "The sky is blue."}
	svc := newTestService(t, gen)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Upload(ctx, sess.ID, "sky.txt", strings.NewReader("The sky is blue."))
	require.NoError(t, err)

	count, err := svc.Process(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Processed)
	assert.NotEmpty(t, got.IndexPath)

	resp, err := svc.Chat(ctx, sess.ID, "What color is the sky?", models.ModeQA, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ModeQA, resp.Mode)
	assert.Equal(t, "The sky is blue.", resp.Answer)

	// the retrieved chunk made it into the rendered prompt
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "The sky is blue.")
	assert.Contains(t, gen.prompts[0], "What color is the sky?")
}

func TestChatModeAutoDetection(t *testing.T) {
	gen := &recordingGenerator{answer: "ok"}
	svc := newTestService(t, gen)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, sess.ID, "doc.txt", strings.NewReader("Chapter 2 covers photosynthesis."))
	require.NoError(t, err)
	_, err = svc.Process(ctx, sess.ID)
	require.NoError(t, err)

	quiz, err := svc.Chat(ctx, sess.ID, "Can you quiz me on chapter 2?", models.ModeQA, 3)
	require.NoError(t, err)
	assert.Equal(t, models.ModeQuiz, quiz.Mode)
	assert.Contains(t, gen.prompts[len(gen.prompts)-1], "Generate exactly 3 multiple-choice questions")

	summary, err := svc.Chat(ctx, sess.ID, "Give me a summary", models.ModeQA, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ModeSummary, summary.Mode)
}

func TestChatValidation(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Chat(ctx, sess.ID, "   ", models.ModeQA, 0)
	assert.ErrorIs(t, err, models.ErrEmptyQuestion)

	_, err = svc.Chat(ctx, sess.ID, "anything", models.ModeQA, 0)
	assert.ErrorIs(t, err, models.ErrNotProcessed)

	_, err = svc.Chat(ctx, "no-such-session", "anything", models.ModeQA, 0)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestProcessWhitespaceOnlyDocument(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, sess.ID, "blank.txt", strings.NewReader("   \n\n  "))
	require.NoError(t, err)

	_, err = svc.Process(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrEmptyInput)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Processed)
}

func TestDeleteSessionIsTerminal(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{answer: "ok"})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, sess.ID, "doc.txt", strings.NewReader("Some searchable content here."))
	require.NoError(t, err)
	_, err = svc.Process(ctx, sess.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, sess.ID))

	_, err = svc.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = svc.Process(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = svc.Chat(ctx, sess.ID, "hello?", models.ModeQA, 0)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	err = svc.DeleteSession(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionsDoNotInterfere(t *testing.T) {
	gen := &recordingGenerator{answer: "ok"}
	svc := newTestService(t, gen)
	ctx := context.Background()

	a, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	b, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Upload(ctx, a.ID, "a.txt", strings.NewReader("Document about astronomy."))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, b.ID, "b.txt", strings.NewReader("Document about biology."))
	require.NoError(t, err)
	_, err = svc.Process(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.Process(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, a.ID))

	resp, err := svc.Chat(ctx, b.ID, "What is the document about?", models.ModeQA, 0)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[len(gen.prompts)-1], "biology")
	assert.Equal(t, "ok", resp.Answer)
}
