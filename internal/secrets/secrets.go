// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file in the directory represents one secret: the filename
// is the key name and the file contents (trimmed) are the value.
//
// Supported key file: anthropic-api-key. Environment variables
// LISTING_LENS_API_KEY and ANTHROPIC_API_KEY take precedence over the
// file so CI and containers need no secrets directory.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// apiKeyFile is the secret file holding the generation API key.
const apiKeyFile = "anthropic-api-key"

// envVars are checked in order for an API key before the secrets
// directory is consulted.
var envVars = []string{"LISTING_LENS_API_KEY", "ANTHROPIC_API_KEY"}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr
// but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey resolves the generation API key: environment variables first,
// then the anthropic-api-key file from the loaded secrets. Returns the
// empty string when no key is configured.
func APIKey(secrets map[string]string) string {
	for _, env := range envVars {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return secrets[apiKeyFile]
}
