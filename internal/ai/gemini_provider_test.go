package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resumatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestConfig(baseURL, model string) *config.OperationAIConfig {
	timeout := 5 * time.Second
	retries := 0
	temperature := float32(0)
	return &config.OperationAIConfig{
		Provider:    config.ProviderGemini,
		Model:       model,
		APIKey:      "gemini-test",
		BaseURL:     baseURL + "/",
		Timeout:     &timeout,
		MaxRetries:  &retries,
		Temperature: &temperature,
	}
}

func TestGeminiCompleterComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "{\"skills\": [\"kubernetes\"]}"}]}}],
  "usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 4, "totalTokenCount": 16}
}`))
	}))
	defer server.Close()

	completer, err := NewGeminiCompleter(context.Background(), geminiTestConfig(server.URL, "gemini-2.0-flash"),
		OperationExtraction, SkillsResponseSchema(), testLogger())
	require.NoError(t, err)

	completion, err := completer.Complete(context.Background(), "extract skills")
	require.NoError(t, err)
	assert.Equal(t, `{"skills": ["kubernetes"]}`, completion.Text)
	require.NotNil(t, completion.Usage)
	assert.Equal(t, int64(16), completion.Usage.TotalTokens)
}

func TestGeminiEmbedderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [0.5, 0.25, -1]}]}`))
	}))
	defer server.Close()

	embedder, err := NewGeminiEmbedder(context.Background(), geminiTestConfig(server.URL, "text-embedding-004"),
		OperationEmbedding, testLogger())
	require.NoError(t, err)

	vector, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, -1}, vector)
	assert.Equal(t, ModelInfo{Provider: "gemini", Model: "text-embedding-004", Operation: OperationEmbedding}, embedder.Info())
}

func TestSkillsResponseSchema(t *testing.T) {
	schema := SkillsResponseSchema()
	require.Contains(t, schema.Properties, "skills")
	assert.Equal(t, []string{"skills"}, schema.Required)
	assert.NotNil(t, schema.Properties["skills"].Items)
}
