/*
Package config loads runtime configuration.

PURPOSE:
  Everything tunable at deploy time lives here: HTTP port, database path,
  SMTP credentials, the chart rendering endpoint, and the report scheduler
  settings. Values come from the environment, with a .env file loaded first
  when present so local development needs no exported variables.

VARIABLES:
  PORT                 HTTP server port (default 8080)
  DB_PATH              SQLite database path (default incapacity.db)
  MAIL_HOST            SMTP host
  MAIL_PORT            SMTP port (default 587)
  MAIL_USER            SMTP username
  MAIL_PASSWORD        SMTP password
  MAIL_FROM_NAME       From display name (default "SIGI Reports")
  MAIL_FROM_EMAIL      From address
  CHART_BASE_URL       Chart rendering service (default https://quickchart.io)
  REPORT_SCHEDULE_ENABLED   "true" enables the monthly report scheduler
  REPORT_SCHEDULE_INTERVAL  Scheduler tick interval (default 1h)

SEE ALSO:
  - cmd/server/main.go: where the config is consumed
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Port   int
	DBPath string

	Mail      Mail
	Chart     Chart
	Scheduler Scheduler
}

// Mail holds SMTP transport settings.
type Mail struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Chart holds chart rendering settings.
type Chart struct {
	BaseURL string
}

// Scheduler holds the automatic report scheduler settings.
type Scheduler struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over .env values.
func Load() (Config, error) {
	// godotenv does not override already-exported variables.
	_ = godotenv.Load()

	cfg := Config{
		Port:   8080,
		DBPath: "incapacity.db",
		Mail: Mail{
			Port:     587,
			FromName: "SIGI Reports",
		},
		Chart: Chart{
			BaseURL: "https://quickchart.io",
		},
		Scheduler: Scheduler{
			Interval: time.Hour,
		},
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	cfg.DBPath = envStr("DB_PATH", cfg.DBPath)

	cfg.Mail.Host = envStr("MAIL_HOST", cfg.Mail.Host)
	if cfg.Mail.Port, err = envInt("MAIL_PORT", cfg.Mail.Port); err != nil {
		return Config{}, err
	}
	cfg.Mail.Username = envStr("MAIL_USER", cfg.Mail.Username)
	cfg.Mail.Password = envStr("MAIL_PASSWORD", cfg.Mail.Password)
	cfg.Mail.FromName = envStr("MAIL_FROM_NAME", cfg.Mail.FromName)
	cfg.Mail.FromEmail = envStr("MAIL_FROM_EMAIL", cfg.Mail.FromEmail)

	cfg.Chart.BaseURL = envStr("CHART_BASE_URL", cfg.Chart.BaseURL)

	cfg.Scheduler.Enabled = envStr("REPORT_SCHEDULE_ENABLED", "false") == "true"
	if cfg.Scheduler.Interval, err = envDuration("REPORT_SCHEDULE_INTERVAL", cfg.Scheduler.Interval); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration, got %q", key, v)
	}
	return d, nil
}
