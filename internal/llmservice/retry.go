package llmservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pdfchat/internal/models"
)

const remediation = "wait a few minutes and try again, use a different API key, or check your usage with your provider"

// Caller wraps a Generator with bounded retry on rate-limit failures.
// Backoff is linear: baseDelay, 2*baseDelay, ... between attempts. Any
// non-rate-limit error propagates immediately and unchanged; this is the
// only retried operation in the system.
type Caller struct {
	gen         Generator
	maxAttempts int
	baseDelay   time.Duration

	// sleep is swappable so tests can observe backoff without waiting.
	sleep func(time.Duration)
}

func NewCaller(gen Generator, maxAttempts int, baseDelay time.Duration) *Caller {
	if maxAttempts <= 0 {
		maxAttempts = models.DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = models.DefaultRetryDelaySecond * time.Second
	}
	return &Caller{
		gen:         gen,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// WithSleep replaces the sleep function, for tests.
func (c *Caller) WithSleep(sleep func(time.Duration)) *Caller {
	c.sleep = sleep
	return c
}

func (c *Caller) Invoke(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		out, err := c.gen.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		lastErr = err
		if attempt < c.maxAttempts {
			wait := c.baseDelay * time.Duration(attempt)
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", c.maxAttempts).
				Dur("wait", wait).
				Msg("Rate limit hit, retrying")
			c.sleep(wait)
		}
	}
	return "", &models.RateLimitError{
		Attempts:    c.maxAttempts,
		Remediation: remediation,
		Err:         lastErr,
	}
}

type rateLimited interface {
	RateLimited() bool
}

// isRateLimited prefers a structured signal from the backend and keeps the
// substring check only as a compatibility shim for backends that surface
// throttling as opaque message text.
func isRateLimited(err error) bool {
	var rl rateLimited
	if errors.As(err, &rl) {
		return rl.RateLimited()
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit")
}
