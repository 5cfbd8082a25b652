package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "List the skills in: {{jobDescription}}"
	testFile := filepath.Join(tempDir, "extraction.md")
	if err := os.WriteFile(testFile, []byte("\n"+content+"\n\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loaded, err := loadPromptFromFile(testFile, "extraction")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}
	if loaded != content {
		t.Errorf("Expected content '%s', got '%s'", content, loaded)
	}

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("  \n"), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}
	if _, err := loadPromptFromFile(emptyFile, "extraction"); err == nil {
		t.Error("Expected error for empty file")
	}

	if _, err := loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "extraction"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadPromptFilesOverridesInlinePrompt(t *testing.T) {
	tempDir := t.TempDir()
	promptFile := filepath.Join(tempDir, "extraction.md")
	if err := os.WriteFile(promptFile, []byte("from file {{jobDescription}}"), 0600); err != nil {
		t.Fatalf("Failed to create prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Extraction: OperationAIConfig{
				Prompt:     "inline {{jobDescription}}",
				PromptFile: promptFile,
			},
		},
	}

	if err := config.loadPromptFiles(); err != nil {
		t.Fatalf("loadPromptFiles failed: %v", err)
	}
	if config.AI.Extraction.Prompt != "from file {{jobDescription}}" {
		t.Errorf("Expected prompt from file, got %q", config.AI.Extraction.Prompt)
	}
	if config.AI.Extraction.PromptFile != promptFile {
		t.Error("Expected prompt file path to be preserved")
	}
}

func TestLoadPromptFilesWithoutFile(t *testing.T) {
	config := &Config{AI: AIConfig{Extraction: OperationAIConfig{Prompt: "inline"}}}
	if err := config.loadPromptFiles(); err != nil {
		t.Fatalf("loadPromptFiles failed: %v", err)
	}
	if config.AI.Extraction.Prompt != "inline" {
		t.Errorf("Expected inline prompt to be kept, got %q", config.AI.Extraction.Prompt)
	}
}
