package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nba-chat/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds one orchestrated chat call
const DefaultTimeout = 20 * time.Second

// ErrNoReviewer is returned by Summarize when no reviewer is configured
var ErrNoReviewer = errors.New("no reviewer agent configured")

// Generator produces an answer from instructions, a question and context
type Generator interface {
	Answer(ctx context.Context, instructions, query string, contexts []models.TextChunk) (*models.Response, error)
}

// Retriever finds knowledge chunks relevant to a query
type Retriever interface {
	Retrieve(ctx context.Context, index, query string, k int) ([]models.TextChunk, error)
}

// Orchestrator runs every configured agent against a message concurrently
type Orchestrator struct {
	cfg       *Config
	gen       Generator
	retriever Retriever
	timeout   time.Duration
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator. retriever may be nil, in which
// case agents answer without retrieved context.
func NewOrchestrator(cfg *Config, gen Generator, retriever Retriever, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		cfg:       cfg,
		gen:       gen,
		retriever: retriever,
		timeout:   timeout,
		logger:    logger,
	}
}

// Agents returns the configured agent names in order
func (o *Orchestrator) Agents() []string {
	names := make([]string, len(o.cfg.Agents))
	for i, a := range o.cfg.Agents {
		names[i] = a.Name
	}
	return names
}

// Chat asks every agent and returns their answers in configuration order
func (o *Orchestrator) Chat(ctx context.Context, user, message string) ([]models.AgentAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	answers := make([]models.AgentAnswer, len(o.cfg.Agents))

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range o.cfg.Agents {
		g.Go(func() error {
			answer, err := o.ask(gctx, def, message)
			if err != nil {
				return fmt.Errorf("agent %s: %w", def.Name, err)
			}
			answers[i] = models.AgentAnswer{Agent: def.Name, Answer: answer}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Info("chat orchestrated",
		"user", user,
		"agents", len(answers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return answers, nil
}

func (o *Orchestrator) ask(ctx context.Context, def Definition, message string) (string, error) {
	var contexts []models.TextChunk
	if def.Index != "" && o.retriever != nil {
		chunks, err := o.retriever.Retrieve(ctx, def.Index, message, def.TopK)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			o.logger.Warn("knowledge retrieval failed, answering without context",
				"agent", def.Name, "index", def.Index, "error", err)
		}
		contexts = chunks
	}

	resp, err := o.gen.Answer(ctx, def.Instructions, message, contexts)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Summarize has the reviewer condense the agents' answers into one reply
func (o *Orchestrator) Summarize(ctx context.Context, message string, answers []models.AgentAnswer) (string, error) {
	if o.cfg.Reviewer.Instructions == "" {
		return "", ErrNoReviewer
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.gen.Answer(ctx, o.cfg.Reviewer.Instructions, message, discussion(answers))
	if err != nil {
		return "", fmt.Errorf("reviewer %s: %w", o.cfg.Reviewer.Name, err)
	}
	return resp.Answer, nil
}

// discussion presents agent answers to the reviewer as context documents
func discussion(answers []models.AgentAnswer) []models.TextChunk {
	chunks := make([]models.TextChunk, 0, len(answers))
	for i, a := range answers {
		if strings.TrimSpace(a.Answer) == "" {
			continue
		}
		chunks = append(chunks, models.TextChunk{
			ID:      i + 1,
			Content: a.Answer,
			Metadata: models.Metadata{
				Source:    a.Agent,
				ChunkType: "agent_answer",
			},
		})
	}
	return chunks
}
