package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
)

// DefaultSheetURL is the published CSV export of the community respawn sheet.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSD24PDvrAwLaNKdMM2lKhe_MuR_jDut6NUsDKBnowZxhrVEMFck_9LPovBdOjAfpJRE_v5RkYbvh2r/pub?output=csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SheetURL        string
	SheetTimeout    time.Duration
	SheetRetryCount int
	Schema          domain.Schema

	RefreshSchedule string
	NextCount       int
	Location        *time.Location
	AdminToken      string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka status publishing configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables from a .env file in the working directory are loaded first
// without overriding the real environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sheetTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SHEET_TIMEOUT", "15s"))
	if err != nil || sheetTimeout <= 0 {
		return nil, errors.New("invalid SHEET_TIMEOUT")
	}

	retryCount, err := parseNonNegativeInt("SHEET_RETRY_COUNT", 0)
	if err != nil {
		return nil, err
	}

	nextCount, err := parseNonNegativeInt("NEXT_COUNT", domain.DefaultNextCount)
	if err != nil || nextCount == 0 {
		return nil, errors.New("invalid NEXT_COUNT")
	}

	schedule := sharedcfg.EnvOrDefault("REFRESH_SCHEDULE", "@every 5m")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err)
	}

	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	schema, err := loadSchema(os.Getenv("SHEET_SCHEMA_FILE"), sharedcfg.EnvOrDefault("SHEET_SCHEMA", domain.DefaultSchema.Version))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SheetURL:        sharedcfg.EnvOrDefault("SHEET_URL", DefaultSheetURL),
		SheetTimeout:    sheetTimeout,
		SheetRetryCount: retryCount,
		Schema:          schema,
		RefreshSchedule: schedule,
		NextCount:       nextCount,
		Location:        loc,
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "boss-status"),
	}

	if cfg.SheetURL == "" {
		return nil, errors.New("SHEET_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// loadSchema returns the column layout from a YAML file when path is set,
// otherwise the built-in layout for version.
func loadSchema(path, version string) (domain.Schema, error) {
	if path == "" {
		schema, err := domain.SchemaByVersion(version)
		if err != nil {
			return domain.Schema{}, fmt.Errorf("invalid SHEET_SCHEMA: %w", err)
		}
		return schema, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Schema{}, fmt.Errorf("read SHEET_SCHEMA_FILE: %w", err)
	}
	var schema domain.Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return domain.Schema{}, fmt.Errorf("parse SHEET_SCHEMA_FILE: %w", err)
	}
	if schema.Version == "" {
		schema.Version = "custom"
	}
	if err := schema.Validate(); err != nil {
		return domain.Schema{}, fmt.Errorf("invalid SHEET_SCHEMA_FILE: %w", err)
	}
	return schema, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
