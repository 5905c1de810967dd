package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pdfchat/internal/models"
	"pdfchat/internal/rag"
)

type Handler struct {
	svc *rag.Service
}

func NewHandler(svc *rag.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PDF Chat API is running",
	})
}

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"message":    "Session created successfully",
	})
}

func (h *Handler) Upload(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		fail(c, fmt.Errorf("%w: missing session_id", models.ErrValidation))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		fail(c, fmt.Errorf("%w: no files provided", models.ErrValidation))
		return
	}

	var stored []string
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			fail(c, fmt.Errorf("opening %s: %w", fh.Filename, err))
			return
		}
		path, err := h.svc.Upload(c.Request.Context(), sessionID, fh.Filename, src)
		src.Close()
		if err != nil {
			fail(c, err)
			return
		}
		stored = append(stored, filepath.Base(path))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d file(s) uploaded successfully", len(stored)),
		"files":   stored,
	})
}

type processRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	if req.SessionID == "" {
		fail(c, fmt.Errorf("%w: missing session_id", models.ErrValidation))
		return
	}

	count, err := h.svc.Process(c.Request.Context(), req.SessionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Documents processed successfully",
		"chunks_created": count,
	})
}

type chatRequest struct {
	SessionID    string `json:"session_id"`
	Question     string `json:"question"`
	Type         string `json:"type"`
	NumQuestions int    `json:"num_questions"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	if req.SessionID == "" {
		fail(c, fmt.Errorf("%w: missing session_id", models.ErrValidation))
		return
	}

	resp, err := h.svc.Chat(c.Request.Context(), req.SessionID, req.Question, models.ParseMode(req.Type), req.NumQuestions)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"type":     resp.Mode,
		"question": resp.Question,
		"answer":   resp.Answer,
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	names := make([]string, len(sess.Files))
	for i, f := range sess.Files {
		names[i] = filepath.Base(f)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"files":      names,
		"processed":  sess.Processed,
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session deleted successfully",
	})
}

// fail maps a core error kind to its HTTP status and writes the standard
// error envelope.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	} else {
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Request rejected")
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	var (
		extractionErr *models.ExtractionError
		rateLimitErr  *models.RateLimitError
	)
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmptyInput),
		errors.Is(err, models.ErrNoChunks),
		errors.As(err, &extractionErr):
		return http.StatusBadRequest
	case errors.As(err, &rateLimitErr):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
