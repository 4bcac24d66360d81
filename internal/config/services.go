package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvExtractionURL  = "SSA_EXTRACTION_URL"
	EnvInferenceURL   = "SSA_INFERENCE_URL"
	EnvRetrievalURL   = "SSA_RETRIEVAL_URL"
	EnvServiceTimeout = "SSA_SERVICE_TIMEOUT"
)

// ServicesConfig holds the endpoints of the supporting HTTP services:
// text extraction, eligibility model inference, and vector store retrieval.
type ServicesConfig struct {
	ExtractionURL string `toml:"extraction_url"`
	InferenceURL  string `toml:"inference_url"`
	RetrievalURL  string `toml:"retrieval_url"`
	Timeout       string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ServicesConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServicesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServicesConfig) Merge(overlay *ServicesConfig) {
	if overlay.ExtractionURL != "" {
		c.ExtractionURL = overlay.ExtractionURL
	}
	if overlay.InferenceURL != "" {
		c.InferenceURL = overlay.InferenceURL
	}
	if overlay.RetrievalURL != "" {
		c.RetrievalURL = overlay.RetrievalURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ServicesConfig) loadDefaults() {
	if c.ExtractionURL == "" {
		c.ExtractionURL = "http://localhost:8001"
	}
	if c.InferenceURL == "" {
		c.InferenceURL = "http://localhost:8002"
	}
	if c.RetrievalURL == "" {
		c.RetrievalURL = "http://localhost:8003"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *ServicesConfig) loadEnv() {
	if v := os.Getenv(EnvExtractionURL); v != "" {
		c.ExtractionURL = v
	}
	if v := os.Getenv(EnvInferenceURL); v != "" {
		c.InferenceURL = v
	}
	if v := os.Getenv(EnvRetrievalURL); v != "" {
		c.RetrievalURL = v
	}
	if v := os.Getenv(EnvServiceTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ServicesConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
