// Package llm generates tool metadata through an OpenAI-compatible
// chat-completion endpoint.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/toolshub/api/internal/middleware"
)

type Client struct {
	client *openai.Client
	model  string
}

type Config struct {
	BaseURL string // e.g. "https://api.openai.com/v1"
	APIKey  string
	Model   string
}

// GeneratedMetadata is the structured output the model must produce.
type GeneratedMetadata struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription"`
	Category        string   `json:"category"`
	Features        []string `json:"features"`
	Tags            []string `json:"tags"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateMetadata asks the model for catalog metadata for a tool URL.
// The caller provides whatever the submitter already typed as hints.
func (c *Client) GenerateMetadata(ctx context.Context, toolURL, hints string) (*GeneratedMetadata, string, error) {
	prompt := fmt.Sprintf(MetadataPrompt, toolURL, hints)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: MetadataSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		middleware.RecordLLMCall(false, time.Since(start))
		return nil, "", fmt.Errorf("llm request failed: %w", err)
	}
	middleware.RecordLLMCall(true, time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("llm returned no choices")
	}
	raw := resp.Choices[0].Message.Content

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return nil, raw, fmt.Errorf("failed to parse llm response: %w", err)
	}

	var meta GeneratedMetadata
	if err := json.Unmarshal([]byte(jsonStr), &meta); err != nil {
		return nil, raw, fmt.Errorf("llm response does not match the expected shape: %w", err)
	}

	return &meta, jsonStr, nil
}
