package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ledger/internal/log"
)

type Config struct {
	// Ledger file
	LedgerFile string

	// Report output
	PlotFile    string
	SummaryFile string

	// Interactive input
	PromptMaxAttempts int

	// Logging
	LogLevel string

	// AMQP (optional, empty URL disables publishing)
	AMQPURL            string
	AMQPExchange       string
	AMQPQueue          string
	AMQPPublishTimeout time.Duration
}

func Load() *Config {
	return &Config{
		LedgerFile: getEnv("LEDGER_FILE", "finance_data.csv"),

		PlotFile:    getEnv("PLOT_FILE", "income_expense_plot.png"),
		SummaryFile: getEnv("SUMMARY_FILE", "income_expense_summary.txt"),

		PromptMaxAttempts: getEnvInt("PROMPT_MAX_ATTEMPTS", 5),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPQueue:          getEnv("AMQP_QUEUE", "transactions"),
		AMQPPublishTimeout: getEnvDuration("AMQP_PUBLISH_TIMEOUT", 5*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.LedgerFile) == "" {
		errors = append(errors, "ledger file path cannot be empty")
	} else if info, err := os.Stat(c.LedgerFile); err == nil && info.IsDir() {
		errors = append(errors, fmt.Sprintf("ledger file '%s' is a directory", c.LedgerFile))
	} else if dir := filepath.Dir(c.LedgerFile); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("ledger directory '%s' does not exist", dir))
		}
	}

	if strings.TrimSpace(c.PlotFile) == "" {
		errors = append(errors, "plot file path cannot be empty")
	} else if !strings.EqualFold(filepath.Ext(c.PlotFile), ".png") {
		errors = append(errors, fmt.Sprintf("invalid plot file '%s': must end in .png", c.PlotFile))
	}
	if strings.TrimSpace(c.SummaryFile) == "" {
		errors = append(errors, "summary file path cannot be empty")
	}

	if c.PromptMaxAttempts < 1 {
		errors = append(errors, fmt.Sprintf("invalid prompt max attempts %d: must be at least 1", c.PromptMaxAttempts))
	} else if c.PromptMaxAttempts > 100 {
		errors = append(errors, fmt.Sprintf("invalid prompt max attempts %d: must be at most 100", c.PromptMaxAttempts))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPPublishTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("invalid AMQP publish timeout %s: must be positive", c.AMQPPublishTimeout))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AMQPEnabled reports whether append events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
