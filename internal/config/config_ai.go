package config

// providerKeyEnv names the conventional credential variable of a provider.
func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// defaultModel returns the model used when an operation does not name one.
func defaultModel(provider, operation string) string {
	switch {
	case provider == ProviderGemini && operation == "embedding":
		return DefaultGeminiEmbeddingModel
	case provider == ProviderGemini:
		return DefaultGeminiExtractionModel
	case operation == "embedding":
		return DefaultOpenAIEmbeddingModel
	default:
		return DefaultOpenAIExtractionModel
	}
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig, operation string) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = defaultModel(opCfg.Provider, operation)
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		if opCfg.Provider == c.AI.Provider {
			opCfg.APIKey = c.AI.APIKey
		} else {
			opCfg.APIKey = lookupProviderKey(opCfg.Provider)
		}
	}
	if opCfg.BaseURL == "" && opCfg.Provider == c.AI.Provider {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		var zero float32
		opCfg.Temperature = &zero
	}
}

// GetExtractionConfig returns the AI configuration for skill extraction with
// fallback to the global config
func (c *Config) GetExtractionConfig() OperationAIConfig {
	config := c.AI.Extraction
	c.applyOperationDefaults(&config, "extraction")
	return config
}

// GetEmbeddingConfig returns the AI configuration for embeddings with fallback
// to the global config
func (c *Config) GetEmbeddingConfig() OperationAIConfig {
	config := c.AI.Embedding
	c.applyOperationDefaults(&config, "embedding")
	return config
}
