package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-provenance/internal/aggregation"
	"github.com/feral-file/ff-provenance/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// EthereumConfig holds Ethereum JSON-RPC configuration
type EthereumConfig struct {
	RPCURL                 string        `mapstructure:"rpc_url"`
	ChainID                domain.Chain  `mapstructure:"chain_id"`
	EndpointID             string        `mapstructure:"endpoint_id"`              // timestamp cache namespace, defaults to rpc_url
	TransferEventSignature string        `mapstructure:"transfer_event_signature"` // topic0 override, empty means keccak256 of the canonical signature
	StartBlock             uint64        `mapstructure:"start_block"`
	CallTimeout            time.Duration `mapstructure:"call_timeout"`
	LogStepSize            uint64        `mapstructure:"log_step_size"`
	BlockHeadTTL           time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow   time.Duration `mapstructure:"block_head_stale_window"`
}

// RetryConfig holds the retry policy for transport errors
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// RateLimitConfig throttles requests to the RPC endpoint. Zero requests_per_second disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// WorkerConfig holds concurrency limits
type WorkerConfig struct {
	WorkerPoolSize       int `mapstructure:"pool_size"`             // tokens built in parallel
	TimestampConcurrency int `mapstructure:"timestamp_concurrency"` // RPC calls in parallel within one journey
}

// RegistryConfig holds paths of the optional registry files
type RegistryConfig struct {
	ActorsPath  string `mapstructure:"actors_path"`
	CatalogPath string `mapstructure:"catalog_path"`
}

// DashboardConfig holds dashboard summary settings
type DashboardConfig struct {
	FallbackCategory string                  `mapstructure:"fallback_category"`
	PriceBands       []aggregation.PriceBand `mapstructure:"price_bands"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// EngineConfig holds everything needed to build journeys and summaries
type EngineConfig struct {
	BaseConfig `mapstructure:",squash"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	Retry      RetryConfig     `mapstructure:"retry"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Worker     WorkerConfig    `mapstructure:"worker"`
	Registry   RegistryConfig  `mapstructure:"registry"`
	Dashboard  DashboardConfig `mapstructure:"dashboard"`
	Tokens     []string        `mapstructure:"tokens"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	EngineConfig `mapstructure:",squash"`
	Server       ServerConfig `mapstructure:"server"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setEngineDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.cors_origins", []string{"*"})

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.EngineConfig.validate(); err != nil {
		return nil, err
	}
	if cfg.Server.Port <= 0 {
		return nil, errors.New("server.port must be positive")
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for the provenance CLI
func LoadCLIConfig(configFile string, envPath string) (*EngineConfig, error) {
	v := configureViper("provenance", configFile, envPath)

	setEngineDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setEngineDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("ethereum.chain_id", string(domain.ChainEthereumMainnet))
	v.SetDefault("ethereum.start_block", 0)
	v.SetDefault("ethereum.call_timeout", "15s")
	v.SetDefault("ethereum.log_step_size", 1_000_000)
	v.SetDefault("ethereum.block_head_ttl", "12s")
	v.SetDefault("ethereum.block_head_stale_window", "60s")
	v.SetDefault("retry.max_attempts", 4)
	v.SetDefault("retry.initial_interval", "500ms")
	v.SetDefault("retry.max_interval", "10s")
	v.SetDefault("rate_limit.requests_per_second", 0)
	v.SetDefault("rate_limit.burst", 0)
	v.SetDefault("rate_limit.max_queue_time", "1m")
	v.SetDefault("worker.pool_size", 8)
	v.SetDefault("worker.timestamp_concurrency", 16)
	v.SetDefault("dashboard.fallback_category", aggregation.DEFAULT_FALLBACK_CATEGORY)
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func (c *EngineConfig) validate() error {
	if c.Ethereum.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if c.Ethereum.EndpointID == "" {
		c.Ethereum.EndpointID = c.Ethereum.RPCURL
	}
	if c.Worker.WorkerPoolSize < 1 {
		return errors.New("worker.pool_size must be at least 1")
	}
	if c.Worker.TimestampConcurrency < 1 {
		return errors.New("worker.timestamp_concurrency must be at least 1")
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be at least 1")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return errors.New("rate_limit.requests_per_second must not be negative")
	}
	if c.Ethereum.LogStepSize == 0 {
		return errors.New("ethereum.log_step_size must be positive")
	}
	for _, token := range c.Tokens {
		if !domain.IsValidAddress(token) {
			return fmt.Errorf("tokens: %w: %s", domain.ErrInvalidAddress, token)
		}
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_PROVENANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.endpoint_id",
		"ethereum.transfer_event_signature",
		"ethereum.start_block",
		"ethereum.call_timeout",
		"ethereum.log_step_size",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		// Retry
		"retry.max_attempts",
		"retry.initial_interval",
		"retry.max_interval",
		// Rate limit
		"rate_limit.requests_per_second",
		"rate_limit.burst",
		"rate_limit.max_queue_time",
		// Worker
		"worker.pool_size",
		"worker.timestamp_concurrency",
		// Registry
		"registry.actors_path",
		"registry.catalog_path",
		// Dashboard
		"dashboard.fallback_category",
		"tokens",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
