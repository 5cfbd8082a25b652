package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptFiles replaces inline prompts with the content of configured
// prompt files. A file always wins over an inline prompt.
func (c *Config) loadPromptFiles() error {
	if c.AI.Extraction.PromptFile == "" {
		if c.AI.Extraction.Prompt == "" {
			log.Println("[CONFIG] No custom extraction prompt - using built-in default")
		}
		return nil
	}

	content, err := loadPromptFromFile(c.AI.Extraction.PromptFile, "extraction")
	if err != nil {
		return err
	}
	c.AI.Extraction.Prompt = content
	return nil
}

// loadPromptFromFile reads and trims a prompt template, rejecting empty files
func loadPromptFromFile(filePath, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", operation, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)", operation, absPath, len(trimmed))
	return trimmed, nil
}
