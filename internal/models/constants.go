package models

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
	DefaultNumQuestions = 5

	DefaultMaxAttempts      = 3
	DefaultRetryDelaySecond = 2

	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2048

	// RefusalPhrase must be emitted verbatim by the qa template when the
	// answer is absent from the retrieved context.
	RefusalPhrase = "The answer is not available in the provided context"
)

var (
	QATemplate = `You are an intelligent assistant. Answer the question based on the provided context.

Instructions:
- Provide detailed and accurate answers
- Use only information from the context
- If the answer is not in the context, clearly state: "` + RefusalPhrase + `"
- Do not make up or infer information
- Structure your answer clearly

Context:
{{.context}}

Question: {{.question}}

Answer:
`

	QuizTemplate = `You are an expert Quiz Generator AI.

Generate exactly {{.num_questions}} multiple-choice questions (MCQs) based ONLY on the provided context.

Requirements:
- Each question should have 4 options (A, B, C, D)
- Questions should test understanding of key concepts
- Provide the correct answer for each question
- Use clear and unambiguous language

Output Format:
Q1. [Question text]?
    A) [Option A]
    B) [Option B]
    C) [Option C]
    D) [Option D]
Correct Answer: [Letter]

Context:
{{.context}}

Generate {{.num_questions}} questions now:
`

	SummaryTemplate = `You are a professional summarizer.

Create a comprehensive summary of the provided context.

Requirements:
- Capture all key points and main ideas
- Use clear and concise language
- Organize information logically
- Maintain accuracy to the original content

Context:
{{.context}}

Additional Instructions: {{.question}}

Summary:
`
)

// Keyword lists for mode auto-detection. Quiz keywords take precedence
// over summary keywords.
var (
	QuizKeywords    = []string{"quiz", "mcq", "test", "questions"}
	SummaryKeywords = []string{"summary", "summarize", "overview"}
)
