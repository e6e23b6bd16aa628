// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/ai"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/memory"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corpora-labs/corpora-cli/internal/analyzers"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/pdf"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/plaintext"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/record"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/spreadsheet"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/tabular"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/word"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/services"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// Shared services, wired by initServices.
var (
	appConfig     *file.Config
	indexService  *services.IndexService
	searchService *services.SearchService
	store         *sqlite.Store
	embedder      driven.EmbeddingService
	llm           driven.LLMService
	registry      *analyzers.Registry
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Question answering over a local document collection",
	Long: `Corpora indexes a collection of local documents (PDF, text, CSV,
spreadsheets, Word, JSON) into a dual-granularity vector index and
answers natural-language questions over it with cited sources.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Missing .env is fine; real env vars win either way.
		_ = godotenv.Load()
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.corpora/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires adapters and core services from configuration.
// Commands that need the index call this lazily so commands like
// version stay dependency-free.
func initServices(ctx context.Context) error {
	if indexService != nil {
		return nil
	}

	cfg, err := file.Load(configPath)
	if err != nil {
		return err
	}
	if err := ai.ValidateConfig(cfg); err != nil {
		return err
	}
	appConfig = cfg

	store, err = sqlite.NewStore(cfg.Collection.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	embedder, err = ai.CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		return err
	}
	llm, err = ai.CreateLLMService(cfg.LLM, cfg.LLMTimeout())
	if err != nil {
		return err
	}

	registry = analyzers.NewRegistry(
		plaintext.New(),
		pdf.New(),
		tabular.New(),
		spreadsheet.New(),
		word.New(),
		record.New(),
	)

	analysis := services.NewAnalysisService(registry, embedder)
	indexService = services.NewIndexService(store, memory.NewVectorIndex(), memory.NewVectorIndex(), analysis)
	if err := indexService.Load(ctx); err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	opts := []services.SearchOption{
		services.WithContextBudget(cfg.Search.ContextBudget),
	}
	if cfg.Search.MaxRetries > 0 {
		opts = append(opts, services.WithRetry(cfg.Search.MaxRetries, 0))
	}
	if cfg.Collection.SweepOnSearch {
		opts = append(opts, services.WithSweepOnSearch(cfg.Collection.Paths))
	}
	searchService = services.NewSearchService(indexService, embedder, llm, opts...)

	return nil
}

func closeServices() {
	if embedder != nil {
		_ = embedder.Close()
	}
	if llm != nil {
		_ = llm.Close()
	}
	if store != nil {
		_ = store.Close()
	}
}

// collectionPaths returns the configured paths unless the command
// supplied its own.
func collectionPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if appConfig != nil {
		return appConfig.Collection.Paths
	}
	return nil
}

// formatDuration renders a millisecond timing for display.
func formatDuration(ms int64) string {
	return time.Duration(ms * int64(time.Millisecond)).String()
}
