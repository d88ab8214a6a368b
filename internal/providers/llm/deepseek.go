package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const deepSeekProviderName = "deepseek"

// DeepSeekOptions configures the OpenAI-compatible DeepSeek client.
type DeepSeekOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// DeepSeek calls the DeepSeek chat-completions endpoint.
type DeepSeek struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature,omitempty"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

func NewDeepSeek(opts DeepSeekOptions) *DeepSeek {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.deepseek.com"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "deepseek-chat"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &DeepSeek{apiKey: opts.APIKey, model: model, baseURL: baseURL, client: client}
}

func (d *DeepSeek) Name() string { return deepSeekProviderName }

func (d *DeepSeek) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	payload := chatCompletionRequest{
		Model:       d.model,
		Temperature: spec.Temperature,
	}
	for _, m := range spec.Messages {
		payload.Messages = append(payload.Messages, chatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRemote, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", wrapTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrRemote)
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrRemote)
	}
	return text, nil
}

var _ Generator = (*DeepSeek)(nil)
