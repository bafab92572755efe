package hints

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/vanshika/warmpath/internal/config"
	"github.com/vanshika/warmpath/internal/pathfinder"
)

// ErrNoContent is returned when the model answers without a usable JSON object.
var ErrNoContent = errors.New("hints: no structured content in response")

// Extractor turns a free-text target description into structured hints.
type Extractor interface {
	Extract(ctx context.Context, description string) (pathfinder.Hints, error)
}

// Nop never produces hints.
type Nop struct{}

func (Nop) Extract(context.Context, string) (pathfinder.Hints, error) {
	return pathfinder.Hints{}, nil
}

const systemPrompt = `You extract search hints from a description of a person someone wants to be introduced to.
Respond with a single JSON object with the optional string fields "name", "company", "title" and "industry".
Omit fields the description does not mention. Do not add any other text.`

// OpenAIExtractor asks a chat-completions endpoint for hints.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIExtractor builds an extractor from cfg. BaseURL may point at any
// OpenAI-compatible server.
func NewOpenAIExtractor(cfg config.AIConfig, logger *slog.Logger) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, description string) (pathfinder.Hints, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return pathfinder.Hints{}, nil
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
		Temperature: 0,
	})
	if err != nil {
		return pathfinder.Hints{}, fmt.Errorf("hints: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return pathfinder.Hints{}, ErrNoContent
	}

	h, err := Parse(resp.Choices[0].Message.Content)
	if err != nil {
		return pathfinder.Hints{}, err
	}
	e.logger.Debug("hints extracted", "model", e.model, "name", h.Name, "company", h.Company, "title", h.Title, "industry", h.Industry)
	return h, nil
}

// Parse reads hints out of a model reply. Code fences and any prose around
// the outermost JSON object are ignored.
func Parse(content string) (pathfinder.Hints, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return pathfinder.Hints{}, ErrNoContent
	}
	raw := content[start : end+1]
	if !gjson.Valid(raw) {
		return pathfinder.Hints{}, ErrNoContent
	}

	res := gjson.Parse(raw)
	return pathfinder.Hints{
		Name:     field(res, "name"),
		Company:  field(res, "company"),
		Title:    field(res, "title"),
		Industry: field(res, "industry"),
	}, nil
}

func field(res gjson.Result, key string) string {
	v := res.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.String())
}
