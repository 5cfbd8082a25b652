package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default models per provider and operation
const (
	DefaultOpenAIExtractionModel = "gpt-4o-mini"
	DefaultOpenAIEmbeddingModel  = "text-embedding-3-small"
	DefaultGeminiExtractionModel = "gemini-2.0-flash"
	DefaultGeminiEmbeddingModel  = "text-embedding-004"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", ProviderOpenAI)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.maxRetries", 3)

	// Skill extraction runs with deterministic sampling
	v.SetDefault("ai.extraction.provider", "")
	v.SetDefault("ai.extraction.model", "")
	v.SetDefault("ai.extraction.apiKey", "")
	v.SetDefault("ai.extraction.temperature", 0.0)
	v.SetDefault("ai.extraction.prompt", "")
	v.SetDefault("ai.extraction.promptFile", "")
	v.SetDefault("ai.extraction.circuitBreaker.enabled", true)
	v.SetDefault("ai.extraction.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.extraction.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.extraction.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.extraction.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.extraction.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("ai.embedding.provider", "")
	v.SetDefault("ai.embedding.model", "")
	v.SetDefault("ai.embedding.apiKey", "")
	v.SetDefault("ai.embedding.timeout", 30*time.Second)
	v.SetDefault("ai.embedding.circuitBreaker.enabled", true)
	v.SetDefault("ai.embedding.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.embedding.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.embedding.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("ai.embedding.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.embedding.circuitBreaker.failureThreshold", 0.6)

	// Scoring
	v.SetDefault("scoring.weights.skill", 0.5)
	v.SetDefault("scoring.weights.responsibility", 0.3)
	v.SetDefault("scoring.weights.embedding", 0.2)
	v.SetDefault("scoring.matchPolicy", MatchPolicySubstring)

	// Documents
	v.SetDefault("document.maxFileSize", 10*1024*1024)
	v.SetDefault("document.s3Region", "")

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 2*1024*1024)
	v.SetDefault("server.apiKeys", []string{})

	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.tls.watchFiles", true)
	v.SetDefault("server.tls.debounceDelay", time.Second)

	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.aiKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumatch")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
