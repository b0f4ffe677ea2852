package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nba-chat/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaLLM handles interactions with the Ollama LLM API
type OllamaLLM struct {
	Client      *api.Client
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewOllamaLLM creates a new Ollama LLM client. An empty host falls back to
// OLLAMA_HOST.
func NewOllamaLLM(host string, model string) (*OllamaLLM, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}
	client := api.NewClient(hostURL, http.DefaultClient)

	return &OllamaLLM{
		Client:      client,
		Model:       model,
		Temperature: 0.1,
		MaxTokens:   1024,
	}, nil
}

// GeneratePrompt creates a prompt from agent instructions, retrieved
// knowledge and the user's question
func (o *OllamaLLM) GeneratePrompt(instructions, query string, contexts []models.TextChunk) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString(strings.TrimSpace(instructions))
	promptBuilder.WriteString("\n\n")

	if len(contexts) > 0 {
		promptBuilder.WriteString("Context retrieved from the knowledge index:\n")
		for i, ctx := range contexts {
			contextHeader := fmt.Sprintf("Document %d [%s", i+1, ctx.Metadata.Source)
			if ctx.Metadata.Section != "" {
				contextHeader += fmt.Sprintf(" > %s", ctx.Metadata.Section)
			}
			contextHeader += fmt.Sprintf(", Page: %d]:\n", ctx.Metadata.PageNumber)

			promptBuilder.WriteString(contextHeader)
			promptBuilder.WriteString(ctx.Content)
			promptBuilder.WriteString("\n\n")
		}
	}

	promptBuilder.WriteString("Question: " + query + "\n\n")
	promptBuilder.WriteString("Answer: ")

	return promptBuilder.String()
}

// GenerateResponse generates a response from the LLM
func (o *OllamaLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	req := api.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Options: map[string]interface{}{
			"temperature": o.Temperature,
			"num_predict": o.MaxTokens,
		},
	}

	var responseBuilder strings.Builder

	err := o.Client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := responseBuilder.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return strings.TrimSpace(responseBuilder.String()), nil
}

// Answer answers a query using the LLM, agent instructions and context
func (o *OllamaLLM) Answer(ctx context.Context, instructions, query string, contexts []models.TextChunk) (*models.Response, error) {
	prompt := o.GeneratePrompt(instructions, query, contexts)

	answer, err := o.GenerateResponse(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Answer:    answer,
		Sources:   contexts,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// HealthCheck reports whether the Ollama server is reachable
func (o *OllamaLLM) HealthCheck(ctx context.Context) error {
	return o.Client.Heartbeat(ctx)
}
