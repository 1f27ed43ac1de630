// Package ai generates acceptance criteria and user stories with Gemini.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/msgtobala/user-story-generator/internal/metrics"
)

const DefaultModel = "gemini-2.0-flash"

var ErrMissingAPIKey = errors.New("Google API key is not configured. Please set GOOGLE_API_KEY in the environment.")

// ContentGenerator is the slice of the genai client the generator uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey    string
	Model     string
	RateLimit float64
	Burst     int
}

type Generator struct {
	models  ContentGenerator
	model   string
	limiter *rate.Limiter
}

// NewGenerator connects to the Gemini API. Without an API key it returns a
// generator whose every call fails with ErrMissingAPIKey.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return newGenerator(nil, cfg), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

// NewGeneratorWith builds a generator on an existing content generator.
func NewGeneratorWith(models ContentGenerator, cfg Config) *Generator {
	return newGenerator(models, cfg)
}

func newGenerator(models ContentGenerator, cfg Config) *Generator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Generator{models: models, model: model, limiter: rate.NewLimiter(limit, burst)}
}

// Configured reports whether the generator has API credentials.
func (g *Generator) Configured() bool {
	return g.models != nil
}

func (g *Generator) generate(ctx context.Context, operation string, contents []*genai.Content, config *genai.GenerateContentConfig) (text string, err error) {
	if g.models == nil {
		return "", ErrMissingAPIKey
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	started := time.Now()
	defer func() { metrics.ObserveAI(operation, started, err) }()

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned from Google AI API")
	}
	text = resp.Text()
	if text == "" {
		return "", errors.New("empty response from Google AI API")
	}
	return text, nil
}
