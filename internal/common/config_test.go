package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sankofa.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SANKOFA_ENV", "GO_ENV", "SANKOFA_LOG_LEVEL", "SANKOFA_LOG_FORMAT",
		"SANKOFA_LOG_OUTPUT", "SANKOFA_FETCHER_USER_AGENT", "SANKOFA_FETCHER_REQUEST_TIMEOUT",
		"SANKOFA_FETCHER_REQUESTS_PER_SEC", "SANKOFA_FETCHER_OFFLINE",
		"SANKOFA_DATASET_OUTPUT", "SANKOFA_DATASET_MIN_ANSWER_LENGTH",
		"SANKOFA_BADGER_PATH", "SANKOFA_HUB_BASE_URL", "SANKOFA_HUB_REPO", "HF_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Dataset.OutputPath != "./dataset/ghanaian_law_qa.jsonl" {
		t.Errorf("Unexpected default output path: %s", config.Dataset.OutputPath)
	}
	if config.Dataset.MinAnswerLength != 20 {
		t.Errorf("Unexpected default min answer length: %d", config.Dataset.MinAnswerLength)
	}
	if config.Fetcher.RequestTimeout != 30*time.Second {
		t.Errorf("Unexpected default request timeout: %v", config.Fetcher.RequestTimeout)
	}
	if config.Hub.BaseURL != "https://huggingface.co" {
		t.Errorf("Unexpected default hub base URL: %s", config.Hub.BaseURL)
	}
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("File values override defaults", func(t *testing.T) {
		clearEnvOverrides(t)
		path := writeConfig(t, `
environment = "production"

[dataset]
output_path = "/tmp/out.jsonl"
min_answer_length = 40

[fetcher]
offline = true
`)

		config, err := LoadFromFiles(path)
		if err != nil {
			t.Fatalf("LoadFromFiles failed: %v", err)
		}

		if config.Environment != "production" {
			t.Errorf("Expected production environment, got %s", config.Environment)
		}
		if config.Dataset.OutputPath != "/tmp/out.jsonl" {
			t.Errorf("Expected overridden output path, got %s", config.Dataset.OutputPath)
		}
		if config.Dataset.MinAnswerLength != 40 {
			t.Errorf("Expected min answer length 40, got %d", config.Dataset.MinAnswerLength)
		}
		if !config.Fetcher.Offline {
			t.Error("Expected offline mode from file")
		}
		// Untouched values keep their defaults
		if config.Dataset.MinQuestionLength != 8 {
			t.Errorf("Default min question length lost: %d", config.Dataset.MinQuestionLength)
		}
	})

	t.Run("Later files override earlier files", func(t *testing.T) {
		clearEnvOverrides(t)
		first := writeConfig(t, "[dataset]\noutput_path = \"first.jsonl\"\n")
		second := writeConfig(t, "[dataset]\noutput_path = \"second.jsonl\"\n")

		config, err := LoadFromFiles(first, second)
		if err != nil {
			t.Fatalf("LoadFromFiles failed: %v", err)
		}
		if config.Dataset.OutputPath != "second.jsonl" {
			t.Errorf("Expected second file to win, got %s", config.Dataset.OutputPath)
		}
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		clearEnvOverrides(t)
		if _, err := LoadFromFiles("/nonexistent/sankofa.toml"); err == nil {
			t.Fatal("Expected an error for a missing file")
		}
	})

	t.Run("Environment overrides files", func(t *testing.T) {
		clearEnvOverrides(t)
		path := writeConfig(t, "[dataset]\noutput_path = \"file.jsonl\"\n")
		t.Setenv("SANKOFA_DATASET_OUTPUT", "env.jsonl")
		t.Setenv("HF_TOKEN", "env-token")

		config, err := LoadFromFiles(path)
		if err != nil {
			t.Fatalf("LoadFromFiles failed: %v", err)
		}
		if config.Dataset.OutputPath != "env.jsonl" {
			t.Errorf("Expected env override, got %s", config.Dataset.OutputPath)
		}
		if config.Hub.Token != "env-token" {
			t.Errorf("Expected HF_TOKEN to populate hub token, got %q", config.Hub.Token)
		}
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, "flag.jsonl", "kofi/ghanaian-law-qa", true)

	if config.Dataset.OutputPath != "flag.jsonl" {
		t.Errorf("Expected flag output path, got %s", config.Dataset.OutputPath)
	}
	if config.Hub.Repo != "kofi/ghanaian-law-qa" {
		t.Errorf("Expected flag repo, got %s", config.Hub.Repo)
	}
	if !config.Fetcher.Offline {
		t.Error("Expected offline flag to apply")
	}

	// Empty flag values leave config untouched
	ApplyFlagOverrides(config, "", "", false)
	if config.Dataset.OutputPath != "flag.jsonl" || !config.Fetcher.Offline {
		t.Error("Empty flags must not reset earlier values")
	}
}
