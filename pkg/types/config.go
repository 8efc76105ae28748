// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "listing-lens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnalyzeConfig holds settings for the listing analysis stage.
type AnalyzeConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Grounding enables the web search tool on the analysis call so the
	// model can cite live market data. Cited pages are attached to the
	// resulting document as Sources.
	Grounding bool `json:"grounding" yaml:"grounding"`

	// MaxSearchUses caps the number of searches the model may run per
	// analysis (default 5).
	MaxSearchUses int `json:"max_search_uses" yaml:"max_search_uses"`
}

// SessionConfig holds settings for the local session store.
type SessionConfig struct {
	// DataDir is the directory holding session.db (default ".listing-lens").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HistoryLimit is the default number of past analyses shown by
	// history listings (default 20).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Analyze AnalyzeConfig `json:"analyze" yaml:"analyze"`
	Session SessionConfig `json:"session" yaml:"session"`
}
