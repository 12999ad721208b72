package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig `toml:"logging"`
	Fetcher     FetcherConfig `toml:"fetcher"`
	Dataset     DatasetConfig `toml:"dataset"`
	Storage     StorageConfig `toml:"storage"`
	Hub         HubConfig     `toml:"hub"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// FetcherConfig contains HTTP scraping configuration for the source fetcher
type FetcherConfig struct {
	UserAgent         string        `toml:"user_agent"`          // User agent sent with scrape requests
	RequestTimeout    time.Duration `toml:"request_timeout"`     // HTTP request timeout
	RequestsPerSec    float64       `toml:"requests_per_sec"`    // Token-bucket rate limit across all fetches
	Burst             int           `toml:"burst"`               // Rate limiter burst size
	MaxBodySize       int64         `toml:"max_body_size"`       // Maximum response body size in bytes
	MinContentLength  int           `toml:"min_content_length"`  // Minimum useful page text length; shorter responses count as a failed fetch
	CacheMaxAge       time.Duration `toml:"cache_max_age"`       // Serve cached articles younger than this without a network call
	Offline           bool          `toml:"offline"`             // Skip HTTP sources entirely, builtin corpus only
}

// DatasetConfig contains output and validation thresholds for the dataset
type DatasetConfig struct {
	OutputPath        string `toml:"output_path"`         // Dataset JSONL path
	MinQuestionLength int    `toml:"min_question_length"` // Minimum trimmed question length in runes
	MinAnswerLength   int    `toml:"min_answer_length"`   // Minimum trimmed answer length in runes
	MaxArticleContent int    `toml:"max_article_content"` // Cap on parsed article body length in runes
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for the scrape cache
type BadgerConfig struct {
	Path           string `toml:"path"`             // Cache directory path; empty disables the cache
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete cache on startup for clean runs
}

// HubConfig contains hosted dataset repository (Hugging Face Hub) configuration
type HubConfig struct {
	BaseURL        string        `toml:"base_url"`        // Hub API base URL
	Repo           string        `toml:"repo"`            // Dataset repo id, "namespace/name" or bare name
	Token          string        `toml:"token"`           // Access token; normally resolved from HF_TOKEN or the hub token file
	Private        bool          `toml:"private"`         // Create the dataset repo as private
	DatasetCard    bool          `toml:"dataset_card"`    // Include a README.md dataset card in the upload commit
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout for hub calls
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for stability; only user-facing
// settings should be exposed in sankofa.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Fetcher: FetcherConfig{
			UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout:   30 * time.Second,
			RequestsPerSec:   1,
			Burst:            1,
			MaxBodySize:      10 * 1024 * 1024, // 10MB
			MinContentLength: 1000,
			CacheMaxAge:      24 * time.Hour,
		},
		Dataset: DatasetConfig{
			OutputPath:        "./dataset/ghanaian_law_qa.jsonl",
			MinQuestionLength: 8,
			MinAnswerLength:   20,
			MaxArticleContent: 2000,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/cache",
			},
		},
		Hub: HubConfig{
			BaseURL:        "https://huggingface.co",
			Repo:           "",
			DatasetCard:    true,
			RequestTimeout: 2 * time.Minute,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SANKOFA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("SANKOFA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("SANKOFA_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("SANKOFA_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Fetcher configuration
	if userAgent := os.Getenv("SANKOFA_FETCHER_USER_AGENT"); userAgent != "" {
		config.Fetcher.UserAgent = userAgent
	}
	if timeout := os.Getenv("SANKOFA_FETCHER_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Fetcher.RequestTimeout = d
		}
	}
	if rps := os.Getenv("SANKOFA_FETCHER_REQUESTS_PER_SEC"); rps != "" {
		if f, err := strconv.ParseFloat(rps, 64); err == nil && f > 0 {
			config.Fetcher.RequestsPerSec = f
		}
	}
	if offline := os.Getenv("SANKOFA_FETCHER_OFFLINE"); offline != "" {
		if b, err := strconv.ParseBool(offline); err == nil {
			config.Fetcher.Offline = b
		}
	}

	// Dataset configuration
	if output := os.Getenv("SANKOFA_DATASET_OUTPUT"); output != "" {
		config.Dataset.OutputPath = output
	}
	if minAnswer := os.Getenv("SANKOFA_DATASET_MIN_ANSWER_LENGTH"); minAnswer != "" {
		if n, err := strconv.Atoi(minAnswer); err == nil && n > 0 {
			config.Dataset.MinAnswerLength = n
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("SANKOFA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Hub configuration
	if baseURL := os.Getenv("SANKOFA_HUB_BASE_URL"); baseURL != "" {
		config.Hub.BaseURL = baseURL
	}
	if repo := os.Getenv("SANKOFA_HUB_REPO"); repo != "" {
		config.Hub.Repo = repo
	}
	if token := os.Getenv("HF_TOKEN"); token != "" {
		config.Hub.Token = token
	}
}

// ApplyFlagOverrides applies command-line flag values to config (highest priority)
func ApplyFlagOverrides(config *Config, outputPath, repo string, offline bool) {
	if outputPath != "" {
		config.Dataset.OutputPath = outputPath
	}
	if repo != "" {
		config.Hub.Repo = repo
	}
	if offline {
		config.Fetcher.Offline = true
	}
}
