package nlu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifeinbox/lifeinbox/plugin/ai"
)

// DefaultAnalyzeTimeout bounds a single NLU call. Query enhancement is a
// best-effort step and must never stall a search.
const DefaultAnalyzeTimeout = 8 * time.Second

// LLMService implements Service on top of the AI provider's chat capability.
type LLMService struct {
	provider *ai.Provider
	timeout  time.Duration
}

// NewLLMService creates an NLU service backed by the AI provider.
func NewLLMService(provider *ai.Provider) *LLMService {
	return &LLMService{
		provider: provider,
		timeout:  DefaultAnalyzeTimeout,
	}
}

// Analyze sends the prompt to the model and returns its raw response.
func (s *LLMService) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	response, err := s.provider.Chat(ctx, []ai.Message{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: prompt},
	})
	latency := time.Since(start)

	if err != nil {
		slog.Warn("NLU analyze failed",
			"error", err,
			"latency_ms", latency.Milliseconds())
		return "", fmt.Errorf("nlu analyze failed: %w", err)
	}

	slog.Debug("NLU analyze completed",
		"latency_ms", latency.Milliseconds(),
		"response_length", len(response))

	return response, nil
}

// analyzeSystemPrompt instructs the model to answer with a single JSON object.
const analyzeSystemPrompt = `You are a search query analyzer for a personal content inbox.
Given a user query, respond with exactly one JSON object and nothing else:

{
  "enhanced_query": "rewritten query with expanded terms",
  "intents": ["find", "recall", ...],
  "filters": {
    "date_from": "YYYY-MM-DD or empty",
    "date_to": "YYYY-MM-DD inclusive or empty",
    "content_type": "text|voice|image|email or empty",
    "category": "category label or empty"
  }
}`

var _ Service = (*LLMService)(nil)
