package models

import "time"

// Mode selects which prompt template and parameters govern generation.
type Mode string

const (
	ModeQA      Mode = "qa"
	ModeQuiz    Mode = "quiz"
	ModeSummary Mode = "summary"
)

// ParseMode maps a request string to a known mode, falling back to qa.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeQuiz:
		return ModeQuiz
	case ModeSummary:
		return ModeSummary
	default:
		return ModeQA
	}
}

// Session scopes one user's uploaded documents, derived index, and
// processing state.
type Session struct {
	ID        string    `json:"session_id"`
	Files     []string  `json:"files"`
	Processed bool      `json:"processed"`
	IndexPath string    `json:"index_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a bounded-length text segment produced by splitting a document
// for embedding.
type Chunk struct {
	Content string
	ChunkID int
}

// ScoredChunk is a retrieved chunk with its cosine similarity to the query.
type ScoredChunk struct {
	Content    string
	ChunkID    int
	Similarity float32
}

// GenerationRequest is a fully-specified request for the language model:
// the resolved mode, the retrieved context, and mode-specific parameters.
type GenerationRequest struct {
	Mode         Mode
	Context      []string
	Question     string
	NumQuestions int
}

// ChatResponse echoes the resolved mode back with the generated text.
type ChatResponse struct {
	Mode     Mode   `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
