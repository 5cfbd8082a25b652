package config

import (
	stderrors "errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"resumatch/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Environment Variables (RESUMATCH_AI_APIKEY, OPENAI_API_KEY, GEMINI_API_KEY)
// 3. Local .env file (never overrides the real environment)
// 4. Config File values
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Document      DocumentConfig      `mapstructure:"document"`
}

// AIConfig holds provider settings shared by every AI operation
type AIConfig struct {
	Provider   string        `mapstructure:"provider"`
	Timeout    time.Duration `mapstructure:"timeout"`
	APIKey     string        `mapstructure:"apiKey"`
	BaseURL    string        `mapstructure:"baseURL"`
	MaxRetries int           `mapstructure:"maxRetries"`

	Extraction OperationAIConfig `mapstructure:"extraction"`
	Embedding  OperationAIConfig `mapstructure:"embedding"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Open to half-open delay
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for one operation. Nil pointers and
// empty strings fall back to AIConfig.
type OperationAIConfig struct {
	Provider       string               `mapstructure:"provider"`
	Model          string               `mapstructure:"model"`
	Timeout        *time.Duration       `mapstructure:"timeout"`
	APIKey         string               `mapstructure:"apiKey"`
	BaseURL        string               `mapstructure:"baseURL"`
	MaxRetries     *int                 `mapstructure:"maxRetries"`
	Temperature    *float32             `mapstructure:"temperature"`
	Prompt         string               `mapstructure:"prompt"`
	PromptFile     string               `mapstructure:"promptFile"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ScoringConfig holds the weighting and matching policy of the evaluation pipeline
type ScoringConfig struct {
	Weights     WeightsConfig `mapstructure:"weights"`
	MatchPolicy string        `mapstructure:"matchPolicy"` // "substring" or "word"
}

// WeightsConfig holds the final score weights. They must sum to 1.
type WeightsConfig struct {
	Skill          float64 `mapstructure:"skill"`
	Responsibility float64 `mapstructure:"responsibility"`
	Embedding      float64 `mapstructure:"embedding"`
}

// DocumentConfig controls how résumé and job files are turned into text
type DocumentConfig struct {
	MaxFileSize int64  `mapstructure:"maxFileSize"`
	S3Region    string `mapstructure:"s3Region"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys for authentication. Empty disables auth.
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	// PEM content, used when loaded from Vault instead of files
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string `mapstructure:"minVersion"`       // "1.2", "1.3"
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // "require", "request", "verify"

	// Reload certificate files when they change on disk
	WatchFiles    bool          `mapstructure:"watchFiles"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	ConsoleOutput   bool             `mapstructure:"consoleOutput"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// Supported providers and match policies
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	MatchPolicySubstring = "substring"
	MatchPolicyWord      = "word"
)

// LoadConfig loads configuration from defaults, a config file, a local .env
// file and the environment, then applies Vault secrets and validates.
func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(dotenvPath string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	loadDotEnv(dotenvPath)

	v := newViper()

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts: %w", err)
	}

	if err := ApplyVaultSecrets(&config, nil); err != nil {
		return nil, fmt.Errorf("failed to apply vault secrets: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// newViper builds a viper instance with defaults, env handling and config
// file search paths.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumatch/")
	v.AddConfigPath("$HOME/.resumatch")
	v.AddConfigPath(".")
	return v
}

// loadDotEnv fills unset environment variables from a local .env file.
func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("[CONFIG] No %s file loaded: %v", path, err)
		return
	}
	log.Printf("[CONFIG] Loaded environment fallbacks from %s", path)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, op := range []struct {
		name string
		cfg  OperationAIConfig
	}{
		{"extraction", c.GetExtractionConfig()},
		{"embedding", c.GetEmbeddingConfig()},
	} {
		switch op.cfg.Provider {
		case ProviderOpenAI, ProviderGemini:
		default:
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("unsupported AI provider for %s: %q", op.name, op.cfg.Provider), nil)
		}
		if op.cfg.APIKey == "" {
			return errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				fmt.Sprintf("AI API key is required for %s (set %s or RESUMATCH_AI_APIKEY)",
					op.name, providerKeyEnv(op.cfg.Provider)), nil).
				WithContext("operation", op.name)
		}
		if *op.cfg.Timeout <= 0 {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("AI timeout for %s must be positive", op.name), nil)
		}
	}

	// Skill extraction always runs deterministically.
	if t := c.GetExtractionConfig().Temperature; t != nil && *t != 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("extraction temperature must be 0, got %g", *t), nil).
			WithContext("operation", "extraction")
	}

	if err := c.Scoring.Validate(); err != nil {
		return err
	}

	if c.Server.Port == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "server port is required", nil)
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid default format: %s", c.App.DefaultFormat), nil)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "TLS configuration error", err)
	}

	return nil
}

// Validate checks weights and match policy
func (s ScoringConfig) Validate() error {
	w := s.Weights
	if w.Skill < 0 || w.Responsibility < 0 || w.Embedding < 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "scoring weights must not be negative", nil)
	}
	if sum := w.Skill + w.Responsibility + w.Embedding; math.Abs(sum-1) > 1e-6 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("scoring weights must sum to 1, got %g", sum), nil)
	}

	switch s.MatchPolicy {
	case MatchPolicySubstring, MatchPolicyWord:
		return nil
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid match policy: %q (must be %q or %q)", s.MatchPolicy, MatchPolicySubstring, MatchPolicyWord), nil)
	}
}
