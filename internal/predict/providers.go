package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Provider names. These are the keys of every PredictionSet.
const (
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// ProviderNames lists all known providers in a stable order.
var ProviderNames = []string{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderDeepSeek}

const (
	maxTokens   = 150
	temperature = 0.7
)

// provider describes one completion endpoint: where to post, how to
// authenticate, and how to dig the text out of its response envelope.
// Adding a fifth provider means adding a table entry, nothing else.
type provider struct {
	name     string
	endpoint string
	model    string
	apiKey   string

	newRequest func(ctx context.Context, p *provider, prompt string) (*http.Request, error)
	parse      func(body []byte) (string, error)
}

// newProviders builds the provider table from configured credentials.
// A provider with an empty key stays in the table; the orchestrator skips
// its network call and goes straight to the fallback.
func newProviders(creds Credentials) []*provider {
	return []*provider{
		{
			name:       ProviderOpenAI,
			endpoint:   "https://api.openai.com/v1/chat/completions",
			model:      "gpt-4o-mini",
			apiKey:     creds.OpenAI,
			newRequest: newChatRequest,
			parse:      parseChatResponse,
		},
		{
			name:       ProviderClaude,
			endpoint:   "https://api.anthropic.com/v1/messages",
			model:      "claude-3-5-haiku-latest",
			apiKey:     creds.Claude,
			newRequest: newAnthropicRequest,
			parse:      parseAnthropicResponse,
		},
		{
			name:       ProviderGemini,
			endpoint:   "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
			model:      "gemini-2.0-flash",
			apiKey:     creds.Gemini,
			newRequest: newGeminiRequest,
			parse:      parseGeminiResponse,
		},
		{
			name:       ProviderDeepSeek,
			endpoint:   "https://api.deepseek.com/chat/completions",
			model:      "deepseek-chat",
			apiKey:     creds.DeepSeek,
			newRequest: newChatRequest,
			parse:      parseChatResponse,
		},
	}
}

// Credentials holds one API key per provider; empty means "fallback only".
type Credentials struct {
	OpenAI   string
	Claude   string
	Gemini   string
	DeepSeek string
}

// chatRequest is the OpenAI-compatible envelope, shared by openai and
// deepseek.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func newChatRequest(ctx context.Context, p *provider, prompt string) (*http.Request, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return req, nil
}

func parseChatResponse(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// anthropicRequest is the Anthropic messages envelope; auth uses the
// x-api-key header instead of a bearer token.
type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func newAnthropicRequest(ctx context.Context, p *provider, prompt string) (*http.Request, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	return req, nil
}

func parseAnthropicResponse(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content block")
}

// geminiRequest is the generateContent envelope; auth uses the
// x-goog-api-key header.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func newGeminiRequest(ctx context.Context, p *provider, prompt string) (*http.Request, error) {
	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{MaxOutputTokens: maxTokens, Temperature: temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)
	return req, nil
}

func parseGeminiResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates")
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty candidate text")
	}
	return text, nil
}
