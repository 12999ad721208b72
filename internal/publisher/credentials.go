package publisher

import (
	"os"
	"path/filepath"
	"strings"
)

// tokenFilePath is the hub CLI's cached login token, relative to the home
// directory.
const tokenFilePath = ".cache/huggingface/token"

// ResolveToken finds the hub access token with the same precedence the hub
// tooling uses: HF_TOKEN environment variable, then the CLI token cache
// file, then the configured token. An empty result is an *AuthError.
func ResolveToken(configToken string) (string, error) {
	if token := strings.TrimSpace(os.Getenv("HF_TOKEN")); token != "" {
		return token, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, tokenFilePath)); err == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token, nil
			}
		}
	}

	if token := strings.TrimSpace(configToken); token != "" {
		return token, nil
	}

	return "", &AuthError{Reason: "no access token found, set HF_TOKEN or log in with the hub CLI"}
}
