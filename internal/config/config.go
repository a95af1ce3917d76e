package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from file, environment and flags.
type Config struct {
	RunAddress         string        `mapstructure:"run_address"`
	DatabaseURI        string        `mapstructure:"database_uri"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTSecretFile      string        `mapstructure:"jwt_secret_file"`
	SeedAPIKeyHash     string        `mapstructure:"seed_api_key_hash"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	OutboxBatchSize    int           `mapstructure:"outbox_batch_size"`
	WorkerPoolSize     int           `mapstructure:"worker_pool_size"`
	StoreRetryAttempts int           `mapstructure:"store_retry_attempts"`
	StoreRetryInitial  time.Duration `mapstructure:"store_retry_initial"`
	WebhookURL         string        `mapstructure:"webhook_url"`
	CORSOrigins        []string      `mapstructure:"cors_origins"`

	Log   LogConfig   `mapstructure:",squash"`
	Redis RedisConfig `mapstructure:",squash"`
	Queue QueueConfig `mapstructure:",squash"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Mode       string `mapstructure:"log_mode"`
	Dir        string `mapstructure:"log_dir"`
	Filename   string `mapstructure:"log_filename"`
	MaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	MaxBackups int    `mapstructure:"log_max_backups"`
	MaxAgeDays int    `mapstructure:"log_max_age_days"`
	Compress   bool   `mapstructure:"log_compress"`
}

// RedisConfig configures the idempotency cache.
type RedisConfig struct {
	Enabled        bool          `mapstructure:"redis_enabled"`
	Addr           string        `mapstructure:"redis_addr"`
	Password       string        `mapstructure:"redis_password"`
	DB             int           `mapstructure:"redis_db"`
	Prefix         string        `mapstructure:"redis_prefix"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// QueueConfig configures the asynq notification producer.
type QueueConfig struct {
	Enabled  bool   `mapstructure:"queue_enabled"`
	Addr     string `mapstructure:"queue_addr"`
	Password string `mapstructure:"queue_password"`
	DB       int    `mapstructure:"queue_db"`
	Name     string `mapstructure:"queue_name"`
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultShutdownTimeout    = 10 * time.Second
	defaultOutboxPollInterval = 2 * time.Second
	defaultOutboxBatchSize    = 32
	defaultWorkerPoolSize     = 4
	defaultStoreRetryAttempts = 3
	defaultStoreRetryInitial  = 50 * time.Millisecond
	defaultLogMode            = "release"
	defaultRedisAddr          = "127.0.0.1:6379"
	defaultRedisPrefix        = "restock"
	defaultIdempotencyTTL     = 24 * time.Hour
	defaultQueueName          = "restock"
)

// Load parses configuration from an optional config file, environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := pflag.NewFlagSet("restock", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("config", "", "Path to YAML config file")
	fs.StringP("address", "a", defaultRunAddress, "HTTP server listen address")
	fs.StringP("database", "d", "", "PostgreSQL DSN")
	fs.String("jwt-secret", defaultJWTSecret, "Secret for verifying actor tokens")
	fs.Int("worker-pool", defaultWorkerPoolSize, "Number of concurrent outbox workers")
	fs.String("poll-interval", defaultOutboxPollInterval.String(), "Interval between outbox polls")
	fs.Int("poll-batch", defaultOutboxBatchSize, "Maximum events per outbox poll")
	fs.String("shutdown-timeout", defaultShutdownTimeout.String(), "Graceful shutdown timeout")
	fs.String("log-mode", defaultLogMode, "Logger mode: debug or release")
	fs.String("webhook", "", "Status change webhook URL")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	bindings := map[string]string{
		"run_address":          "address",
		"database_uri":         "database",
		"jwt_secret":           "jwt-secret",
		"worker_pool_size":     "worker-pool",
		"outbox_poll_interval": "poll-interval",
		"outbox_batch_size":    "poll-batch",
		"shutdown_timeout":     "shutdown-timeout",
		"log_mode":             "log-mode",
		"webhook_url":          "webhook",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.AutomaticEnv()

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.JWTSecretFile != "" {
		content, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	normalize(cfg)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("database_uri", "")
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_secret_file", "")
	v.SetDefault("seed_api_key_hash", "")
	v.SetDefault("shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("outbox_poll_interval", defaultOutboxPollInterval)
	v.SetDefault("outbox_batch_size", defaultOutboxBatchSize)
	v.SetDefault("worker_pool_size", defaultWorkerPoolSize)
	v.SetDefault("store_retry_attempts", defaultStoreRetryAttempts)
	v.SetDefault("store_retry_initial", defaultStoreRetryInitial)
	v.SetDefault("webhook_url", "")
	v.SetDefault("cors_origins", []string{})

	v.SetDefault("log_mode", defaultLogMode)
	v.SetDefault("log_dir", "")
	v.SetDefault("log_filename", "restock.log")
	v.SetDefault("log_max_size_mb", 100)
	v.SetDefault("log_max_backups", 7)
	v.SetDefault("log_max_age_days", 30)
	v.SetDefault("log_compress", true)

	v.SetDefault("redis_enabled", false)
	v.SetDefault("redis_addr", defaultRedisAddr)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", defaultRedisPrefix)
	v.SetDefault("idempotency_ttl", defaultIdempotencyTTL)

	v.SetDefault("queue_enabled", false)
	v.SetDefault("queue_addr", defaultRedisAddr)
	v.SetDefault("queue_password", "")
	v.SetDefault("queue_db", 0)
	v.SetDefault("queue_name", defaultQueueName)
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	path, _ := fs.GetString("config")
	if path == "" {
		path = os.Getenv("RESTOCK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("restock")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func normalize(cfg *Config) {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = defaultOutboxBatchSize
	}
	if cfg.OutboxPollInterval <= 0 {
		cfg.OutboxPollInterval = defaultOutboxPollInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.StoreRetryAttempts <= 0 {
		cfg.StoreRetryAttempts = defaultStoreRetryAttempts
	}
	if cfg.StoreRetryInitial <= 0 {
		cfg.StoreRetryInitial = defaultStoreRetryInitial
	}
	if cfg.Redis.IdempotencyTTL <= 0 {
		cfg.Redis.IdempotencyTTL = defaultIdempotencyTTL
	}
	if strings.TrimSpace(cfg.Queue.Name) == "" {
		cfg.Queue.Name = defaultQueueName
	}
	if strings.TrimSpace(cfg.Log.Mode) == "" {
		cfg.Log.Mode = defaultLogMode
	}
}
