package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gorewood/gy/internal/output"
)

// fileName is the credential file kept in the home directory.
const fileName = ".gy_config.json"

// APIKeyEnvVar is the environment variable that overrides the stored key.
const APIKeyEnvVar = "ANTHROPIC_API_KEY"

// Credentials is the persisted credential record.
type Credentials struct {
	AnthropicAPIKey string `json:"anthropic_api_key"`
	Model           string `json:"model,omitempty"`
}

// KeySource describes where the active API key came from.
type KeySource string

// Key sources in precedence order.
const (
	SourceEnv  KeySource = "env"
	SourceFile KeySource = "file"
	SourceNone KeySource = "none"
)

// Load reads the credential file.
// Returns nil, nil when the file does not exist.
func Load() (*Credentials, error) {
	path, err := Path()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to determine home directory", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read "+path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse "+path, err)
	}
	return &creds, nil
}

// Save writes the credential file with owner-only permissions.
// Callers validate the key first; Save does not.
func Save(creds *Credentials) (string, error) {
	path, err := Path()
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to determine home directory", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", output.NewSystemErrorWithCause("failed to create "+dir, err)
		}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to serialize config", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", output.NewSystemErrorWithCause("failed to write "+path, err)
	}
	return path, nil
}

// Remove deletes the credential file. A missing file is not an error.
func Remove() error {
	path, err := Path()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to determine home directory", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return output.NewSystemErrorWithCause("failed to remove "+path, err)
	}
	return nil
}

// ResolveAPIKey returns the key to use for this invocation.
// A non-empty ANTHROPIC_API_KEY wins over the stored key.
// An unreadable credential file is reported as an error rather than
// silently ignored.
func ResolveAPIKey() (string, KeySource, error) {
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		return key, SourceEnv, nil
	}

	creds, err := Load()
	if err != nil {
		return "", SourceNone, err
	}
	if creds != nil && creds.AnthropicAPIKey != "" {
		return creds.AnthropicAPIKey, SourceFile, nil
	}
	return "", SourceNone, nil
}

// ResolveModel picks the model: explicit flag, then the stored default,
// then fallback.
func ResolveModel(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	if creds, err := Load(); err == nil && creds != nil && creds.Model != "" {
		return creds.Model
	}
	return fallback
}

// MaskKey hides all but the last four characters of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return fmt.Sprintf("%s…%s", key[:4], key[len(key)-4:])
}
