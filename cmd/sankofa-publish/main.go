package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/publisher"
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
	datasetPath  = flag.String("dataset", "", "Dataset JSONL path to upload (overrides config output path)")
	repoID       = flag.String("repo", "", "Target dataset repo, namespace/name or bare name (overrides config)")
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

	var err error

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

	common.ApplyFlagOverrides(config, "", *repoID, false)

	logger = common.InitLogger(config)

	common.InstallCrashHandler("./logs")

	common.PrintBanner(common.LoadVersionFromFile())

	path := *datasetPath
	if path == "" {
		path = config.Dataset.OutputPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, err := publisher.New(config.Hub, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Publisher setup failed")
		os.Exit(exitCode(err))
	}

	url, err := pub.Publish(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("dataset", path).Msg("Publish failed")
		os.Exit(exitCode(err))
	}

	logger.Info().Str("url", url).Msg("Publish complete")
}

// exitCode maps failure categories to distinct exit codes so scripts can
// tell credential problems from upload problems.
func exitCode(err error) int {
	var authErr *publisher.AuthError
	if errors.As(err, &authErr) {
		return 2
	}
	return 1
}
