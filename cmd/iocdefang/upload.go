package iocdefang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iocdefang/iocdefang/internal/git"
	"github.com/iocdefang/iocdefang/pkg/core"
)

const uploadSchemaVersion = "1"

type uploadEnvelope struct {
	Tool     string         `json:"tool"`
	Version  string         `json:"version"`
	Schema   string         `json:"schema_version"`
	Repo     string         `json:"repo,omitempty"`
	Commit   string         `json:"commit,omitempty"`
	Branch   string         `json:"branch,omitempty"`
	Findings []core.Finding `json:"findings"`
}

// uploadFindings POSTs findings as JSON to url. Nothing is sent when there
// are no findings.
func uploadFindings(ctx context.Context, rootPath, url, token string, noMeta bool, findings []core.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	env := uploadEnvelope{Tool: "iocdefang", Version: version, Schema: uploadSchemaVersion, Findings: findings}
	if !noMeta {
		env.Repo, env.Commit, env.Branch = git.RepoMetadata(rootPath)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}
