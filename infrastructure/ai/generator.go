// Package ai generates short replies through OpenAI-compatible chat endpoints.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	NoKeyReply    = "❌ No AI API key configured."
	FailedReply   = "I couldn't think of a response..."
	EmptyReply    = "🤖 The AI gave no reply."
	defaultTokens = 200
)

var errNoChoices = errors.New("no choices in chat completion")

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type provider struct {
	name   string
	client chatCompleter
	model  string
}

// Config holds the credentials of every supported provider. An empty key, or
// "0", leaves the provider out.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string
	Timeout      time.Duration
	Temperature  float32
}

// Generator is a TextGenerator that tries Gemini, then Groq, and answers with
// a fixed fallback reply when neither produces text.
type Generator struct {
	providers   []provider
	timeout     time.Duration
	temperature float32
}

// NewGenerator creates a generator for the configured providers
func NewGenerator(cfg Config) *Generator {
	g := &Generator{
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
	}
	if g.timeout <= 0 {
		g.timeout = 10 * time.Second
	}
	if g.temperature == 0 {
		g.temperature = 0.4
	}

	if hasKey(cfg.GeminiAPIKey) {
		g.providers = append(g.providers, provider{
			name:   "gemini",
			client: newClient(cfg.GeminiAPIKey, GeminiBaseURL),
			model:  cfg.GeminiModel,
		})
	}
	if hasKey(cfg.GroqAPIKey) {
		g.providers = append(g.providers, provider{
			name:   "groq",
			client: newClient(cfg.GroqAPIKey, GroqBaseURL),
			model:  cfg.GroqModel,
		})
	}

	if len(g.providers) == 0 {
		log.Warn("No AI API key configured, replies will use the fallback text")
	}
	return g
}

func newClient(apiKey, baseURL string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = baseURL
	return openai.NewClientWithConfig(clientConfig)
}

func hasKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != "0"
}

// Enabled reports whether any provider is configured
func (g *Generator) Enabled() bool {
	return len(g.providers) > 0
}

// Generate returns a reply to prompt, or a fallback reply when every provider failed
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	if len(g.providers) == 0 {
		return NoKeyReply
	}

	var lastErr error
	for _, p := range g.providers {
		reply, err := g.complete(ctx, p, prompt)
		if err == nil {
			return reply
		}
		lastErr = err
		log.WithError(err).WithField("provider", p.name).Warn("AI provider failed")
	}

	if errors.Is(lastErr, errNoChoices) {
		return EmptyReply
	}
	return FailedReply
}

func (g *Generator) complete(ctx context.Context, p provider, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   defaultTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errNoChoices
	}
	return text, nil
}
