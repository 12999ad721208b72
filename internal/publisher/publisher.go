// Package publisher uploads the generated JSONL dataset to a Hugging Face
// Hub dataset repository. The flow mirrors the hub client libraries:
// validate the token against whoami, create the repo (idempotent), then
// push one commit carrying the dataset file and an optional dataset card.
package publisher

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/writer"
)

// Publisher pushes dataset files to the hub API.
type Publisher struct {
	client *http.Client
	config common.HubConfig
	logger arbor.ILogger
}

// New creates a Publisher. The token is resolved immediately so credential
// problems surface before any file is touched.
func New(config common.HubConfig, logger arbor.ILogger) (*Publisher, error) {
	token, err := ResolveToken(config.Token)
	if err != nil {
		return nil, err
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), src)
	if config.RequestTimeout > 0 {
		client.Timeout = config.RequestTimeout
	}

	return &Publisher{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Publish uploads the dataset at datasetPath to the configured repo,
// creating the repo when needed. Returns the web URL of the dataset.
func (p *Publisher) Publish(ctx context.Context, datasetPath string) (string, error) {
	records, err := writer.Read(datasetPath)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("dataset %s is empty, nothing to publish", datasetPath)
	}

	user, err := p.WhoAmI(ctx)
	if err != nil {
		return "", err
	}
	p.logger.Info().Str("user", user).Msg("Authenticated with hub")

	repoID := p.config.Repo
	if repoID == "" {
		return "", fmt.Errorf("no dataset repo configured")
	}
	if !strings.Contains(repoID, "/") {
		repoID = user + "/" + repoID
	}

	if err := p.EnsureRepo(ctx, repoID); err != nil {
		return "", err
	}

	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return "", fmt.Errorf("failed to read dataset %s: %w", datasetPath, err)
	}

	files := map[string][]byte{
		path.Base(datasetPath): data,
	}
	if p.config.DatasetCard {
		files["README.md"] = []byte(datasetCard(repoID, len(records)))
	}

	if err := p.Commit(ctx, repoID, fmt.Sprintf("Upload dataset (%d records)", len(records)), files); err != nil {
		return "", err
	}

	url := p.config.BaseURL + "/datasets/" + repoID
	p.logger.Info().Str("repo", repoID).Int("records", len(records)).Str("url", url).Msg("Dataset published")
	return url, nil
}

// WhoAmI validates the token and returns the authenticated username.
func (p *Publisher) WhoAmI(ctx context.Context) (string, error) {
	resp, err := p.do(ctx, http.MethodGet, "/api/whoami-v2", nil, "")
	if err != nil {
		return "", &AuthError{Reason: "whoami request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &AuthError{Reason: fmt.Sprintf("token rejected (status %d)", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Reason: fmt.Sprintf("unexpected whoami status %d", resp.StatusCode)}
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &AuthError{Reason: "malformed whoami response", Err: err}
	}
	if body.Name == "" {
		return "", &AuthError{Reason: "whoami response missing username"}
	}
	return body.Name, nil
}

// EnsureRepo creates the dataset repo. An already-existing repo is success.
func (p *Publisher) EnsureRepo(ctx context.Context, repoID string) error {
	namespace, name, _ := strings.Cut(repoID, "/")

	payload := map[string]interface{}{
		"type":         "dataset",
		"name":         name,
		"organization": namespace,
		"private":      p.config.Private,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &UploadError{Repo: repoID, Err: err}
	}

	resp, err := p.do(ctx, http.MethodPost, "/api/repos/create", bytes.NewReader(body), "application/json")
	if err != nil {
		return &UploadError{Repo: repoID, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		p.logger.Debug().Str("repo", repoID).Msg("Dataset repo already exists")
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Reason: fmt.Sprintf("repo creation rejected (status %d)", resp.StatusCode)}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		p.logger.Info().Str("repo", repoID).Bool("private", p.config.Private).Msg("Created dataset repo")
		return nil
	default:
		return &UploadError{Repo: repoID, Err: fmt.Errorf("repo creation failed: %s", readError(resp.Body, resp.StatusCode))}
	}
}

// Commit pushes files to the repo's main revision in a single commit using
// the hub's NDJSON commit endpoint.
func (p *Publisher) Commit(ctx context.Context, repoID, summary string, files map[string][]byte) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	header := map[string]interface{}{
		"key": "header",
		"value": map[string]string{
			"summary":     summary,
			"description": "",
		},
	}
	if err := enc.Encode(header); err != nil {
		return &UploadError{Repo: repoID, Err: err}
	}

	for filePath, content := range files {
		op := map[string]interface{}{
			"key": "file",
			"value": map[string]string{
				"path":     filePath,
				"content":  base64.StdEncoding.EncodeToString(content),
				"encoding": "base64",
			},
		}
		if err := enc.Encode(op); err != nil {
			return &UploadError{Repo: repoID, Err: err}
		}
	}

	endpoint := "/api/datasets/" + repoID + "/commit/main"
	resp, err := p.do(ctx, http.MethodPost, endpoint, &buf, "application/x-ndjson")
	if err != nil {
		return &UploadError{Repo: repoID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Reason: fmt.Sprintf("commit rejected (status %d)", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UploadError{Repo: repoID, Err: fmt.Errorf("commit failed: %s", readError(resp.Body, resp.StatusCode))}
	}

	return nil
}

func (p *Publisher) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.config.BaseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return p.client.Do(req)
}

// readError extracts the hub's error message from a failed response body.
func readError(body io.Reader, status int) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))

	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		return fmt.Sprintf("status %d: %s", status, parsed.Error)
	}
	return fmt.Sprintf("status %d", status)
}

// datasetCard renders the README.md dataset card included with uploads.
func datasetCard(repoID string, recordCount int) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("language:\n- en\n")
	sb.WriteString("license: mit\n")
	sb.WriteString("task_categories:\n- question-answering\n")
	sb.WriteString("tags:\n- legal\n- ghana\n- law\n")
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s\n\n", path.Base(repoID))
	sb.WriteString("Question/answer pairs covering Ghanaian law: the 1992 Constitution of Ghana and major statutes.\n\n")
	fmt.Fprintf(&sb, "- Records: %d\n", recordCount)
	sb.WriteString("- Format: JSONL, one `{\"question\", \"answer\"}` object per line\n")
	fmt.Fprintf(&sb, "- Generated: %s\n", time.Now().UTC().Format("2006-01-02"))
	return sb.String()
}
