// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the outreach service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	PollInterval    time.Duration
	DefaultTimezone string
	SendURL         string
	ShutdownTimeout time.Duration
}

// Load parses configuration values from the current process environment.
//
// Optional fields receive defaults; required values and malformed entries are
// collected and reported together so operators see every problem at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:outreach.db?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)",
		PollInterval:    30 * time.Second,
		DefaultTimezone: "UTC",
		ShutdownTimeout: 10 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("OUTREACH_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "OUTREACH_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("OUTREACH_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if pollValue := strings.TrimSpace(os.Getenv("OUTREACH_POLL_INTERVAL")); pollValue != "" {
		poll, err := time.ParseDuration(pollValue)
		if err != nil || poll <= 0 {
			invalid = append(invalid, "OUTREACH_POLL_INTERVAL")
		} else {
			cfg.PollInterval = poll
		}
	}

	if tzValue := strings.TrimSpace(os.Getenv("OUTREACH_DEFAULT_TZ")); tzValue != "" {
		if _, err := time.LoadLocation(tzValue); err != nil {
			invalid = append(invalid, "OUTREACH_DEFAULT_TZ")
		} else {
			cfg.DefaultTimezone = tzValue
		}
	}

	if sendURL := strings.TrimSpace(os.Getenv("OUTREACH_SEND_URL")); sendURL == "" {
		missing = append(missing, "OUTREACH_SEND_URL")
	} else {
		cfg.SendURL = sendURL
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("OUTREACH_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "OUTREACH_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
