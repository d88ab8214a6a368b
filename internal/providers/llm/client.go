// Package llm contains the generation backends. Every backend implements
// Generator: prompt in, text out, or a typed failure. Retry policy belongs to
// the caller; a Generator performs exactly one attempt and mutates nothing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
)

var (
	// ErrTimeout marks a generation attempt that exceeded its deadline.
	ErrTimeout = errors.New("generation timed out")
	// ErrRemote marks any other backend failure (transport, status, decode).
	ErrRemote = errors.New("generation backend failed")
)

// Role values for chat-style prompts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-style prompt.
type Message struct {
	Role    string
	Content string
}

// Kind values describing what a prompt asks for. Remote backends ignore the
// hint; the offline generator uses it to pick a template.
const (
	KindWorkout   = "workout"
	KindNutrition = "nutrition"
	KindChat      = "chat"
)

// PromptSpec is the generation request handed to a backend.
type PromptSpec struct {
	Kind        string
	Messages    []Message
	Temperature float64

	// Profile carries the structured attributes behind the rendered prompt,
	// so the offline generator can build a plan without parsing text.
	Profile *domain.User
}

// Generator is the outbound generation contract.
type Generator interface {
	Generate(ctx context.Context, spec PromptSpec) (string, error)
	Name() string
}

const defaultHTTPTimeout = 60 * time.Second

// NewFromConfig selects a backend once at construction time. A missing API
// key yields the offline generator, so callers never treat configuration
// absence as an exceptional path.
func NewFromConfig(cfg *infra.Config, logger zerolog.Logger) Generator {
	client := &http.Client{Timeout: defaultHTTPTimeout}

	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return NewGemini(GeminiOptions{
				APIKey:     cfg.GeminiAPIKey,
				Model:      cfg.GeminiModel,
				BaseURL:    cfg.GeminiBaseURL,
				HTTPClient: client,
			})
		}
	default:
		if cfg.DeepSeekAPIKey != "" {
			return NewDeepSeek(DeepSeekOptions{
				APIKey:     cfg.DeepSeekAPIKey,
				Model:      cfg.DeepSeekModel,
				BaseURL:    cfg.DeepSeekBaseURL,
				HTTPClient: client,
			})
		}
	}

	logger.Warn().Str("provider", cfg.LLMProvider).Msg("llm: no api key configured, using offline generator")
	return NewOffline()
}

// wrapTransportError classifies an outbound call failure.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrRemote, err)
}
