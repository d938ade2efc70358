// Package gemini implements domain.Generator on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"legalrag/internal/domain"
)

// Defaults applied when Config leaves a field empty.
const (
	DefaultModel     = "gemini-1.5-flash"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
	DefaultTimeout   = 30 * time.Second
)

// Config selects the model and where its key comes from.
type Config struct {
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// contentGenerator is the subset of *genai.GenerativeModel used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Generator answers questions over retrieved context with a Gemini model.
type Generator struct {
	client  *genai.Client
	model   contentGenerator
	name    string
	timeout time.Duration
}

var _ domain.Generator = (*Generator)(nil)

// New connects to Gemini. The API key is read from the environment variable named in cfg.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrInvalidConfig, cfg.APIKeyEnv)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}

	g := newGenerator(model, cfg)
	g.client = client
	return g, nil
}

func newGenerator(model contentGenerator, cfg Config) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{model: model, name: cfg.Model, timeout: timeout}
}

// Name returns the model name, reported as Answer.Model.
func (g *Generator) Name() string { return g.name }

// Generate sends the question and its context as one prompt and returns the model text.
func (g *Generator) Generate(ctx context.Context, question, contextText string) (string, error) {
	ctx, cancel := contextWithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(Prompt(question, contextText)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGeneratorUnavailable)
	}
	return text, nil
}

// Close releases the underlying client.
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Prompt builds the legal analysis prompt.
func Prompt(question, context string) string {
	var b strings.Builder
	b.WriteString("You are a professional legal document analysis assistant.\n\n")
	b.WriteString("Context from legal documents:\n")
	b.WriteString(context)
	b.WriteString("\n\nUser Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer only from the context provided. If the context does not contain enough ")
	b.WriteString("information to answer the question, say so clearly. Use clear, professional language.\n\n")
	b.WriteString("Response:")
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		// first candidate with content wins
		if b.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
