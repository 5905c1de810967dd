package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"pdfchat/internal/models"
)

// separators are tried in order; the splitter prefers the earliest one that
// produces pieces within the chunk size before falling back to hard cuts.
var separators = []string{"\n\n", "\n", ".", " ", ""}

// Chunker splits extracted text into overlapping fixed-size segments
// suitable for embedding.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	splitter     textsplitter.RecursiveCharacter
}

func New(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = models.DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = models.DefaultChunkOverlap
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(separators),
		),
	}
}

// Split returns the ordered chunk sequence for text. Whitespace-only input
// or a split that produces nothing fails with models.ErrEmptyInput.
func (c *Chunker) Split(text string) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyInput
	}

	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}

	var chunks []models.Chunk
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content: piece,
			ChunkID: len(chunks) + 1,
		})
	}
	if len(chunks) == 0 {
		return nil, models.ErrEmptyInput
	}
	return chunks, nil
}

func (c *Chunker) ChunkSize() int { return c.chunkSize }
