package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWorkflowValidationThreshold = "SSA_WORKFLOW_VALIDATION_THRESHOLD"
	EnvWorkflowMaxSteps            = "SSA_WORKFLOW_MAX_STEPS"
	EnvWorkflowCallTimeout         = "SSA_WORKFLOW_CALL_TIMEOUT"
)

// WorkflowConfig holds workflow engine tuning parameters.
type WorkflowConfig struct {
	ValidationThreshold float64 `toml:"validation_threshold"`
	MaxSteps            int     `toml:"max_steps"`
	CallTimeout         string  `toml:"call_timeout"`
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *WorkflowConfig) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.ValidationThreshold != 0 {
		c.ValidationThreshold = overlay.ValidationThreshold
	}
	if overlay.MaxSteps != 0 {
		c.MaxSteps = overlay.MaxSteps
	}
	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.ValidationThreshold == 0 {
		c.ValidationThreshold = 0.5
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 16
	}
	if c.CallTimeout == "" {
		c.CallTimeout = "5m"
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowValidationThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.ValidationThreshold = threshold
		}
	}
	if v := os.Getenv(EnvWorkflowMaxSteps); v != "" {
		if steps, err := strconv.Atoi(v); err == nil {
			c.MaxSteps = steps
		}
	}
	if v := os.Getenv(EnvWorkflowCallTimeout); v != "" {
		c.CallTimeout = v
	}
}

func (c *WorkflowConfig) validate() error {
	if c.ValidationThreshold < 0 || c.ValidationThreshold > 1 {
		return fmt.Errorf("validation_threshold must be in [0,1]: %g", c.ValidationThreshold)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max_steps must be positive: %d", c.MaxSteps)
	}
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	return nil
}
