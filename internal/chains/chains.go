package chains

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"pdfchat/internal/models"
)

// contextSeparator joins retrieved chunks into the single context block the
// templates expect.
const contextSeparator = "\n\n"

// DetectMode inspects the raw question text for mode keywords. Quiz
// keywords win over summary keywords; with no match the caller-specified
// fallback is kept.
func DetectMode(question string, fallback models.Mode) models.Mode {
	lower := strings.ToLower(question)
	for _, kw := range models.QuizKeywords {
		if strings.Contains(lower, kw) {
			return models.ModeQuiz
		}
	}
	for _, kw := range models.SummaryKeywords {
		if strings.Contains(lower, kw) {
			return models.ModeSummary
		}
	}
	if fallback == "" {
		return models.ModeQA
	}
	return fallback
}

// Build renders the fully-specified prompt for the request's mode from its
// fixed template, retrieved context, and mode-specific parameters.
func Build(req models.GenerationRequest) (string, error) {
	contextBlock := strings.Join(req.Context, contextSeparator)

	switch req.Mode {
	case models.ModeQuiz:
		numQuestions := req.NumQuestions
		if numQuestions <= 0 {
			numQuestions = models.DefaultNumQuestions
		}
		prompt := prompts.NewPromptTemplate(models.QuizTemplate, []string{"context", "num_questions"})
		return prompt.Format(map[string]any{
			"context":       contextBlock,
			"num_questions": numQuestions,
		})
	case models.ModeSummary:
		// the question doubles as free-text summarization guidance
		prompt := prompts.NewPromptTemplate(models.SummaryTemplate, []string{"context", "question"})
		return prompt.Format(map[string]any{
			"context":  contextBlock,
			"question": req.Question,
		})
	case models.ModeQA, "":
		prompt := prompts.NewPromptTemplate(models.QATemplate, []string{"context", "question"})
		return prompt.Format(map[string]any{
			"context":  contextBlock,
			"question": req.Question,
		})
	default:
		return "", fmt.Errorf("unknown mode: %s", req.Mode)
	}
}
