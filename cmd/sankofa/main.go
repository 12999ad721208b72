package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/corpus"
	"github.com/ternarybob/sankofa/internal/fetcher"
	"github.com/ternarybob/sankofa/internal/interfaces"
	"github.com/ternarybob/sankofa/internal/normalizer"
	"github.com/ternarybob/sankofa/internal/pipeline"
	badgerstorage "github.com/ternarybob/sankofa/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	outputPath   = flag.String("output", "", "Dataset output path (overrides config)")
	outputPathO  = flag.String("o", "", "Dataset output path (shorthand, overrides config)")
	offline      = flag.Bool("offline", false, "Skip live HTTP sources, builtin corpus only")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Sankofa version %s\n", common.GetVersion())
		os.Exit(0)
	}

	finalOutput := *outputPath
	if *outputPathO != "" {
		finalOutput = *outputPathO
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("sankofa.toml"); err == nil {
			configFiles = append(configFiles, "sankofa.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalOutput, "", *offline)

	logger = common.InitLogger(config)

	common.InstallCrashHandler("./logs")

	common.PrintBanner(common.LoadVersionFromFile())

	logger.Debug().
		Str("environment", config.Environment).
		Str("output", config.Dataset.OutputPath).
		Str("cache", config.Storage.Badger.Path).
		Bool("offline", config.Fetcher.Offline).
		Msg("Resolved configuration")

	// Cancel in-flight fetches on Ctrl+C; the dataset write is atomic so an
	// interrupted run leaves any previous dataset intact.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache interfaces.ArticleStorage
	if config.Storage.Badger.Path != "" && !config.Fetcher.Offline {
		db, err := badgerstorage.NewBadgerDB(logger, &config.Storage.Badger)
		if err != nil {
			logger.Warn().Err(err).Str("path", config.Storage.Badger.Path).Msg("Scrape cache unavailable, continuing without it")
		} else {
			store := badgerstorage.NewArticleStorage(db, logger)
			defer store.Close()
			cache = store
		}
	}

	f := fetcher.New(config.Fetcher, cache, logger)
	n := normalizer.New(config.Dataset.MinQuestionLength, config.Dataset.MinAnswerLength)
	p := pipeline.New(config, f, n, logger)

	stats, err := p.Run(ctx, corpus.DefaultTopics())
	if err != nil {
		logger.Error().Err(err).Msg("Dataset generation failed")
		os.Exit(1)
	}

	logger.Info().
		Int("topics", stats.Topics).
		Int("topics_failed", stats.TopicsFailed).
		Int("records", stats.Records.Kept).
		Str("output", stats.OutputPath).
		Msg("Generation complete")
}
