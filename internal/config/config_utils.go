package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAIKeyFallbacks()
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyAIKeyFallbacks picks up the provider's conventional key variable when
// RESUMATCH_AI_APIKEY and the config file leave the key empty.
func (c *Config) applyAIKeyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = lookupProviderKey(c.AI.Provider)
	}
}

func lookupProviderKey(provider string) string {
	return strings.TrimSpace(os.Getenv(providerKeyEnv(provider)))
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMATCH_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitAndTrim(apiKeysEnv)
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMATCH_AI_APIKEY",
		"RESUMATCH_AI_PROVIDER",
		"RESUMATCH_SERVER_PORT",
		"RESUMATCH_SERVER_HOST",
		"RESUMATCH_APP_LOGLEVEL",
		"RESUMATCH_VAULT_ENABLED",
		"OPENAI_API_KEY",
		"GEMINI_API_KEY",
	}

	set := make([]string, 0, len(envVars))
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		set = append(set, envVar+"="+value)
	}
	if len(set) == 0 {
		log.Println("[CONFIG] Environment variables: none set")
	} else {
		log.Printf("[CONFIG] Environment variables: %s", strings.Join(set, ", "))
	}

	extraction := c.GetExtractionConfig()
	embedding := c.GetEmbeddingConfig()
	log.Printf("[CONFIG] Extraction - Provider: %s, Model: %s, Key: %s",
		extraction.Provider, extraction.Model, maskedState(extraction.APIKey))
	log.Printf("[CONFIG] Embedding - Provider: %s, Model: %s, Key: %s",
		embedding.Provider, embedding.Model, maskedState(embedding.APIKey))
	log.Printf("[CONFIG] Scoring - Weights: %.2f/%.2f/%.2f, Match policy: %s",
		c.Scoring.Weights.Skill, c.Scoring.Weights.Responsibility, c.Scoring.Weights.Embedding, c.Scoring.MatchPolicy)
	log.Printf("[CONFIG] Server: %s:%s, TLS mode: %s, Vault enabled: %t",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.Vault.Enabled)
}

func maskedState(secret string) string {
	if secret == "" {
		return "***NOT SET***"
	}
	return "***CONFIGURED***"
}
