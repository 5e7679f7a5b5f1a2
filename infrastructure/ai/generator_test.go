package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.reply == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func generatorWith(providers ...provider) *Generator {
	return &Generator{providers: providers, timeout: time.Second, temperature: 0.4}
}

func TestNewGenerator_Providers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   Config
		names []string
	}{
		{"none", Config{}, nil},
		{"zero means unset", Config{GeminiAPIKey: "0", GroqAPIKey: "0"}, nil},
		{"groq only", Config{GroqAPIKey: "gsk"}, []string{"groq"}},
		{"gemini first", Config{GroqAPIKey: "gsk", GeminiAPIKey: "AIza"}, []string{"gemini", "groq"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewGenerator(tt.cfg)

			var names []string
			for _, p := range g.providers {
				names = append(names, p.name)
			}
			assert.Equal(t, tt.names, names)
			assert.Equal(t, len(tt.names) > 0, g.Enabled())
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("no provider", func(t *testing.T) {
		assert.Equal(t, NoKeyReply, generatorWith().Generate(context.Background(), "hi"))
	})

	t.Run("first provider answers", func(t *testing.T) {
		gemini := &fakeCompleter{reply: "  So close, bestie!  "}
		groq := &fakeCompleter{reply: "unused"}
		g := generatorWith(
			provider{name: "gemini", client: gemini, model: "gemini-2.0-flash"},
			provider{name: "groq", client: groq, model: "llama3-8b-8192"},
		)

		assert.Equal(t, "So close, bestie!", g.Generate(context.Background(), "prompt"))
		assert.Equal(t, 0, groq.calls)

		require.Len(t, gemini.last.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, gemini.last.Messages[0].Role)
		assert.Equal(t, "prompt", gemini.last.Messages[0].Content)
		assert.Equal(t, "gemini-2.0-flash", gemini.last.Model)
	})

	t.Run("falls through to the next provider", func(t *testing.T) {
		gemini := &fakeCompleter{err: errors.New("429 too many requests")}
		groq := &fakeCompleter{reply: "Nope!"}
		g := generatorWith(
			provider{name: "gemini", client: gemini},
			provider{name: "groq", client: groq},
		)

		assert.Equal(t, "Nope!", g.Generate(context.Background(), "prompt"))
		assert.Equal(t, 1, gemini.calls)
	})

	t.Run("every provider failed", func(t *testing.T) {
		g := generatorWith(provider{name: "groq", client: &fakeCompleter{err: errors.New("boom")}})
		assert.Equal(t, FailedReply, g.Generate(context.Background(), "prompt"))
	})

	t.Run("empty completion", func(t *testing.T) {
		g := generatorWith(provider{name: "gemini", client: &fakeCompleter{}})
		assert.Equal(t, EmptyReply, g.Generate(context.Background(), "prompt"))
	})
}
