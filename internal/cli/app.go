package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"legalrag/internal/analysis"
	"legalrag/internal/answer"
	"legalrag/internal/answer/gemini"
	"legalrag/internal/chunker"
	"legalrag/internal/clauses"
	"legalrag/internal/config"
	"legalrag/internal/domain"
	"legalrag/internal/embedding/lexicon"
	"legalrag/internal/embedding/openai"
	"legalrag/internal/logging"
	"legalrag/internal/service"
	"legalrag/internal/summarizer"
	"legalrag/internal/vectorstore/memory"
)

// App holds what every command needs.
type App struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Service *service.RAGService
}

// NewApp loads configuration from cfgPath (or the default locations when empty) and
// assembles the service.
func NewApp(ctx context.Context, cfgPath string) (*App, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log)
	svc, err := BuildService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, Service: svc}, nil
}

// Close releases resources held by the service.
func (a *App) Close() error {
	if a == nil || a.Service == nil {
		return nil
	}
	return a.Service.Close()
}

// BuildService wires the pipeline from configuration.
func BuildService(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*service.RAGService, error) {
	ch, err := chunker.NewWordChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, err
	}
	emb, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	extractor, err := clauses.NewExtractor()
	if err != nil {
		return nil, err
	}
	analyzer := analysis.NewAnalyzer(extractor, summarizer.NewFrequencySummarizer(), cfg.Summarizer.MaxSentences)

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithTopK(cfg.Retrieval.TopK, cfg.Retrieval.SearchTopK),
	}
	if cfg.Generator.Type == config.GeneratorGemini && cfg.Generator.Gemini != nil {
		g := cfg.Generator.Gemini
		gen, err := gemini.New(ctx, gemini.Config{
			APIKeyEnv:   g.APIKeyEnv,
			Model:       g.Model,
			Timeout:     time.Duration(g.TimeoutSecs) * time.Second,
			Temperature: g.Temperature,
		})
		if err != nil {
			logger.Warn("gemini generator unavailable, answers use the heuristic synthesizer", "error", err)
		} else {
			opts = append(opts, service.WithGenerator(gen))
		}
	}

	return service.NewRAGService(
		ch,
		emb,
		memory.NewStorage(emb.Dimension()),
		answer.NewSynthesizer(),
		extractor,
		analyzer,
		opts...,
	), nil
}

func buildEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case config.EmbedderLexicon, "":
		return lexicon.NewEmbedder(), nil
	case config.EmbedderOpenAI:
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("%w: openai embedder config missing", domain.ErrInvalidConfig)
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfig, cfg.Type)
	}
}
