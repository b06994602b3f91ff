package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Directories
	InboxDir  string
	ImagesDir string
	OutboxDir string

	// Roster
	RosterXLSXPath string
	RosterMode     string // strict or lenient

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Delivery
	DryRun bool

	// Classification and extraction
	ClassifyPermissive bool
	AtcoFilenameHint   string
	HouseMatchStrategy string // label or street

	// OverrideMonth pins aggregation to a fixed month: either a bare month
	// number 1-12 (current year implied) or YYYY-MM. Empty means
	// latest-month selection.
	OverrideMonth string
}

func Load() *Config {
	cfg := &Config{
		InboxDir:  getEnv("INBOX_DIR", "./inbox"),
		ImagesDir: getEnv("IMAGES_DIR", "./images"),
		OutboxDir: getEnv("OUTBOX_DIR", "./outbox"),

		RosterXLSXPath: getEnv("ROSTER_XLSX_PATH", ""),
		RosterMode:     getEnv("ROSTER_MODE", "lenient"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/bollette.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bollette"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "drafts"),

		DryRun: getEnvBool("DRY_RUN", false),

		ClassifyPermissive: getEnvBool("CLASSIFY_PERMISSIVE", false),
		AtcoFilenameHint:   getEnv("ATCO_FILENAME_HINT", ""),
		HouseMatchStrategy: getEnv("HOUSE_MATCH_STRATEGY", "label"),

		OverrideMonth: getEnv("OVERRIDE_MONTH", ""),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.InboxDir == "" {
		errors = append(errors, "inbox directory cannot be empty")
	}

	if c.RosterMode != "strict" && c.RosterMode != "lenient" {
		errors = append(errors, fmt.Sprintf("invalid roster mode '%s': must be 'strict' or 'lenient'", c.RosterMode))
	}

	if c.HouseMatchStrategy != "label" && c.HouseMatchStrategy != "street" {
		errors = append(errors, fmt.Sprintf("invalid house match strategy '%s': must be 'label' or 'street'", c.HouseMatchStrategy))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		// Check if directory exists or can be created
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
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
	}

	if c.RosterXLSXPath != "" {
		if _, err := os.Stat(c.RosterXLSXPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("roster workbook does not exist: %s", c.RosterXLSXPath))
		}
	}

	if c.OverrideMonth != "" {
		if _, _, err := c.ParseOverrideMonth(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ParseOverrideMonth splits OVERRIDE_MONTH into year and month. A bare month
// number gets the current year. Returns zeros when no override is set.
func (c *Config) ParseOverrideMonth() (year, month int, err error) {
	if c.OverrideMonth == "" {
		return 0, 0, nil
	}

	if !strings.Contains(c.OverrideMonth, "-") {
		month, merr := strconv.Atoi(c.OverrideMonth)
		if merr != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid override month '%s': must be 1-12 or YYYY-MM", c.OverrideMonth)
		}
		return time.Now().Year(), month, nil
	}

	parts := strings.SplitN(c.OverrideMonth, "-", 2)
	year, yerr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	if yerr != nil || merr != nil || year < 1 || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid override month '%s': must be 1-12 or YYYY-MM", c.OverrideMonth)
	}
	return year, month, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
