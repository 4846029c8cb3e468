package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from an optional
// YAML file named by KANBAN_CONFIG_FILE, overridden by KANBAN_* environment
// variables.
type Config struct {
	Database   DatabaseConfig `yaml:"database"`
	Redis      RedisConfig    `yaml:"redis"`
	Server     ServerConfig   `yaml:"server"`
	Realtime   RealtimeConfig `yaml:"realtime"`
	S3         S3Config       `yaml:"s3"`
	Log        LogConfig      `yaml:"log"`
	SelfHosted bool           `yaml:"self_hosted"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` //nolint:gosec // G117: DB connection config
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"` //nolint:gosec // G117: Redis connection config
	DB       int    `yaml:"db"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
}

// RealtimeConfig controls how open boards learn about changes.
type RealtimeConfig struct {
	// Schema names the change feed channel, "changes:<schema>".
	Schema string `yaml:"schema"`
	// Scope is "schema" (every change refreshes every open board) or
	// "board" (only changes to the open board).
	Scope string `yaml:"scope"`
	// LegacyEmptyColumnDrop moves a card hovered over an empty column area
	// to the front of the list without changing its column.
	LegacyEmptyColumnDrop bool `yaml:"legacy_empty_column_drop"`
}

// S3Config holds snapshot export settings. Export is disabled when Bucket is
// empty.
type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"` //nolint:gosec // G117: object store credentials
	UsePathStyle bool   `yaml:"use_path_style"`
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

// LogConfig holds zerolog settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "kanban",
			DBName:   "kanban_dev",
			SSLMode:  "disable",
			MaxConns: 25,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			CORSOrigins:    []string{"http://localhost:3000"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Realtime: RealtimeConfig{Schema: "public", Scope: "schema"},
		S3:       S3Config{Region: "us-east-1"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the optional config file, then environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("KANBAN_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with any KANBAN_* variable that is set. The current
// value is each lookup's fallback.
func applyEnv(cfg *Config) error {
	var err error

	db := &cfg.Database
	db.Host = getEnv("KANBAN_DB_HOST", db.Host)
	if db.Port, err = getEnvInt("KANBAN_DB_PORT", db.Port); err != nil {
		return err
	}
	db.User = getEnv("KANBAN_DB_USER", db.User)
	db.Password = getEnv("KANBAN_DB_PASSWORD", db.Password)
	db.DBName = getEnv("KANBAN_DB_NAME", db.DBName)
	db.SSLMode = getEnv("KANBAN_DB_SSLMODE", db.SSLMode)
	if db.MaxConns, err = getEnvInt("KANBAN_DB_MAX_CONNS", db.MaxConns); err != nil {
		return err
	}

	rd := &cfg.Redis
	rd.Addr = getEnv("KANBAN_REDIS_ADDR", rd.Addr)
	rd.Password = getEnv("KANBAN_REDIS_PASSWORD", rd.Password)
	if rd.DB, err = getEnvInt("KANBAN_REDIS_DB", rd.DB); err != nil {
		return err
	}

	srv := &cfg.Server
	srv.Addr = getEnv("KANBAN_SERVER_ADDR", srv.Addr)
	if srv.ReadTimeout, err = getEnvDuration("KANBAN_SERVER_READ_TIMEOUT", srv.ReadTimeout); err != nil {
		return err
	}
	if srv.WriteTimeout, err = getEnvDuration("KANBAN_SERVER_WRITE_TIMEOUT", srv.WriteTimeout); err != nil {
		return err
	}
	srv.CORSOrigins = getEnvList("KANBAN_CORS_ORIGINS", srv.CORSOrigins)
	if srv.RateLimitRPS, err = getEnvFloat("KANBAN_RATE_LIMIT_RPS", srv.RateLimitRPS); err != nil {
		return err
	}
	if srv.RateLimitBurst, err = getEnvInt("KANBAN_RATE_LIMIT_BURST", srv.RateLimitBurst); err != nil {
		return err
	}

	rt := &cfg.Realtime
	rt.Schema = getEnv("KANBAN_REALTIME_SCHEMA", rt.Schema)
	rt.Scope = getEnv("KANBAN_REALTIME_SCOPE", rt.Scope)
	if rt.LegacyEmptyColumnDrop, err = getEnvBool("KANBAN_LEGACY_EMPTY_COLUMN_DROP", rt.LegacyEmptyColumnDrop); err != nil {
		return err
	}

	s3 := &cfg.S3
	s3.Endpoint = getEnv("KANBAN_S3_ENDPOINT", s3.Endpoint)
	s3.Bucket = getEnv("KANBAN_S3_BUCKET", s3.Bucket)
	s3.Region = getEnv("KANBAN_S3_REGION", s3.Region)
	s3.AccessKey = getEnv("KANBAN_S3_ACCESS_KEY", s3.AccessKey)
	s3.SecretKey = getEnv("KANBAN_S3_SECRET_KEY", s3.SecretKey)
	if s3.UsePathStyle, err = getEnvBool("KANBAN_S3_USE_PATH_STYLE", s3.UsePathStyle); err != nil {
		return err
	}

	cfg.Log.Level = getEnv("KANBAN_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("KANBAN_LOG_FORMAT", cfg.Log.Format)

	if cfg.SelfHosted, err = getEnvBool("KANBAN_SELF_HOSTED", cfg.SelfHosted); err != nil {
		return err
	}

	return nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("KANBAN_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("KANBAN_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("KANBAN_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("KANBAN_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("KANBAN_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("KANBAN_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("KANBAN_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}

	if c.Realtime.Schema == "" {
		return errors.New("KANBAN_REALTIME_SCHEMA must not be empty")
	}
	switch c.Realtime.Scope {
	case "schema", "board":
	default:
		return fmt.Errorf("KANBAN_REALTIME_SCOPE must be 'schema' or 'board', got %q", c.Realtime.Scope)
	}

	if c.S3.Enabled() {
		if c.S3.Endpoint == "" {
			return errors.New("KANBAN_S3_ENDPOINT is required when KANBAN_S3_BUCKET is set")
		}
		if c.S3.Region == "" {
			return errors.New("KANBAN_S3_REGION must not be empty")
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("KANBAN_LOG_LEVEL: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("KANBAN_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
