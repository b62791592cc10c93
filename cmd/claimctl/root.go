package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/llm"
	"github.com/medclaim-ai/claims-engine/internal/llm/openai"
	processor "github.com/medclaim-ai/claims-engine/internal/pipeline"
	repo "github.com/medclaim-ai/claims-engine/internal/repository"
)

var (
	flagSession string
	flagUseLLM  bool
	flagUseDB   bool
)

var rootCmd = &cobra.Command{
	Use:   "claimctl",
	Short: "Insurance claim extraction and coverage toolkit",
	Long: "Parses insurance policy and hospital invoice documents, calculates coverage, " +
		"and assembles synthetic claim forms.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSession, "session", "", "Session identifier grouping the documents of one claim")
	pf.BoolVar(&flagUseLLM, "llm", false, "Use the OpenAI extractor before the pattern fallback (needs OPENAI_API_KEY)")
	pf.BoolVar(&flagUseDB, "db", false, "Persist documents and claims to Postgres (needs DB_URL)")
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}

// buildStage wires the parse stage from flags: optional OpenAI extractor,
// optional Postgres persistence. The returned cleanup is safe to call
// unconditionally.
func buildStage(ctx context.Context, logger *slog.Logger) (*processor.ParseStage, *processor.Processor, func(), error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(flagUseDB, flagUseLLM); err != nil {
		return nil, nil, func() {}, err
	}

	var llmClient llm.DocumentExtractor
	if flagUseLLM {
		llmClient = openai.NewClient(openai.Config{
			APIKey:          cfg.LLM.APIKey,
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.Temperature,
			Timeout:         cfg.LLM.Timeout,
			LenientSanitize: true,
		}, logger)
	}

	var docsRepo repo.DocumentRepository
	var jobsRepo repo.ExtractJobRepository
	var claimsRepo repo.ClaimRepository
	cleanup := func() {}
	if flagUseDB {
		pool, err := repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, nil, func() {}, err
		}
		cleanup = func() { repo.Close(pool, logger) }
		docsRepo = repo.NewDocumentRepository(pool, logger)
		jobsRepo = repo.NewExtractJobRepository(pool, logger)
		claimsRepo = repo.NewClaimRepository(pool, logger)
	}

	stage := processor.NewParseStage(logger, processor.Config{MinConfidence: cfg.Pipeline.MinConfidence}, docsRepo, jobsRepo, llmClient)
	proc := processor.NewProcessor(logger, stage, docsRepo, claimsRepo)
	return stage, proc, cleanup, nil
}

// commandContext carries the --session flag so stages can recover the
// session when a caller passes an empty one.
func commandContext() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if flagSession != "" {
		ctx = common.WithSessionID(ctx, flagSession)
	}
	return common.WithTimeout(ctx, 2*time.Minute)
}
