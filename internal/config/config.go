// Package config provides configuration loading and validation for the
// capture agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds every knob of the capture agent. It can be loaded from a
// JSON file; missing values fall back to Defaults(), and a few fields can be
// overridden from the environment (see ApplyEnv).
type Config struct {
	// Capture target
	TargetURL   string `json:"target_url" validate:"required,url"`
	APIEndpoint string `json:"api_endpoint" validate:"required,url"`

	// Page locators (XPath expressions bound to the target page layout)
	CurrentLocator   string `json:"current_locator" validate:"required"`
	YesterdayLocator string `json:"yesterday_locator" validate:"required"`
	TimeBlockLocator string `json:"time_block_locator" validate:"required"`

	// Scheduling and per-stage time budgets, in seconds
	WaitSeconds              int `json:"wait_seconds" validate:"min=1"`
	NavigationTimeoutSeconds int `json:"navigation_timeout_seconds" validate:"min=1"`
	SelectorTimeoutSeconds   int `json:"selector_timeout_seconds" validate:"min=1"`
	TextTimeoutSeconds       int `json:"text_timeout_seconds" validate:"min=1"`
	ScreenshotTimeoutSeconds int `json:"screenshot_timeout_seconds" validate:"min=1"`
	PublishTimeoutSeconds    int `json:"publish_timeout_seconds" validate:"min=1"`

	// Screenshot artifacts
	ScreenshotDir    string `json:"screenshot_dir" validate:"required"`
	ScreenshotPrefix string `json:"screenshot_prefix" validate:"required"`
	KeepDays         int    `json:"keep_days" validate:"min=1"`

	// Persistence
	DatabaseURL      string `json:"database_url,omitempty"`
	MaxWriteAttempts int    `json:"max_write_attempts" validate:"min=1"`

	// Process behavior
	LogFile string `json:"log_file,omitempty"` // rotating log file; empty logs to stderr only
	Verbose bool   `json:"verbose,omitempty"`  // per-second countdown between cycles
}

// Defaults returns the built-in configuration, matching the production
// dashboard layout.
func Defaults() Config {
	return Config{
		TargetURL:                "https://vidyutpravah.in/state-data/tamil-nadu",
		APIEndpoint:              "http://172.16.7.118:8003/api/tamilnadu/demand/post.demand.php",
		CurrentLocator:           `//*[@id="TamilNadu_map"]/div[6]/span/span`,
		YesterdayLocator:         `//*[@id="TamilNadu_map"]/div[4]/span/span`,
		TimeBlockLocator:         `/html/body/table/tbody/tr[1]/td/table/tbody/tr[2]/td/table/tbody/tr/td[2]`,
		WaitSeconds:              300,
		NavigationTimeoutSeconds: 90,
		SelectorTimeoutSeconds:   30,
		TextTimeoutSeconds:       10,
		ScreenshotTimeoutSeconds: 15,
		PublishTimeoutSeconds:    10,
		ScreenshotDir:            "screenshots",
		ScreenshotPrefix:         "vidyutpravah",
		KeepDays:                 2,
		MaxWriteAttempts:         4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.TargetURL == "" {
		result.TargetURL = defaults.TargetURL
	}
	if result.APIEndpoint == "" {
		result.APIEndpoint = defaults.APIEndpoint
	}
	if result.CurrentLocator == "" {
		result.CurrentLocator = defaults.CurrentLocator
	}
	if result.YesterdayLocator == "" {
		result.YesterdayLocator = defaults.YesterdayLocator
	}
	if result.TimeBlockLocator == "" {
		result.TimeBlockLocator = defaults.TimeBlockLocator
	}
	if result.WaitSeconds == 0 {
		result.WaitSeconds = defaults.WaitSeconds
	}
	if result.NavigationTimeoutSeconds == 0 {
		result.NavigationTimeoutSeconds = defaults.NavigationTimeoutSeconds
	}
	if result.SelectorTimeoutSeconds == 0 {
		result.SelectorTimeoutSeconds = defaults.SelectorTimeoutSeconds
	}
	if result.TextTimeoutSeconds == 0 {
		result.TextTimeoutSeconds = defaults.TextTimeoutSeconds
	}
	if result.ScreenshotTimeoutSeconds == 0 {
		result.ScreenshotTimeoutSeconds = defaults.ScreenshotTimeoutSeconds
	}
	if result.PublishTimeoutSeconds == 0 {
		result.PublishTimeoutSeconds = defaults.PublishTimeoutSeconds
	}
	if result.ScreenshotDir == "" {
		result.ScreenshotDir = defaults.ScreenshotDir
	}
	if result.ScreenshotPrefix == "" {
		result.ScreenshotPrefix = defaults.ScreenshotPrefix
	}
	if result.KeepDays == 0 {
		result.KeepDays = defaults.KeepDays
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MaxWriteAttempts == 0 {
		result.MaxWriteAttempts = defaults.MaxWriteAttempts
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}

	return result
}

// ApplyEnv overrides fields from environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("DEMAND_TARGET_URL"); v != "" {
		c.TargetURL = v
	}
	if v := os.Getenv("DEMAND_API_ENDPOINT"); v != "" {
		c.APIEndpoint = v
	}
}

// Validate checks the configuration using the validator tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// WaitInterval returns the inter-cycle wait.
func (c *Config) WaitInterval() time.Duration {
	return time.Duration(c.WaitSeconds) * time.Second
}

// NavigationTimeout returns the page navigation budget.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutSeconds) * time.Second
}

// SelectorTimeout returns the visibility-wait budget.
func (c *Config) SelectorTimeout() time.Duration {
	return time.Duration(c.SelectorTimeoutSeconds) * time.Second
}

// TextTimeout returns the per-region text read budget.
func (c *Config) TextTimeout() time.Duration {
	return time.Duration(c.TextTimeoutSeconds) * time.Second
}

// ScreenshotTimeout returns the screenshot save budget.
func (c *Config) ScreenshotTimeout() time.Duration {
	return time.Duration(c.ScreenshotTimeoutSeconds) * time.Second
}

// PublishTimeout returns the downstream API call budget.
func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.PublishTimeoutSeconds) * time.Second
}
