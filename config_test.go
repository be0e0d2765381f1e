package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir replicates t.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())

	// 최초 실행: 기본 설정 파일을 만들고 키 설정을 요구하는 에러
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.json")

	_, statErr := os.Stat("config.json")
	require.NoError(t, statErr)
}

func TestLoadConfigMissingKey(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.json", []byte(`{}`), 0644))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.json", []byte(`{"gemini_api_key":"test-key"}`), 0644))

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-key", config.GeminiAPIKey)
	assert.Equal(t, "./audit-knowledge.db", config.DBPath)
	assert.Equal(t, "gemini-2.5-flash-lite", config.ChatModel)
	assert.Equal(t, "text-embedding-004", config.EmbeddingModel)
	assert.Equal(t, 10, config.MaxSteps)
	assert.InDelta(t, 0.7, float64(config.MinSimilarity), 0.001)
	assert.Equal(t, 5, config.PolicyTopK)
	assert.Equal(t, 7, config.EmailTopK)
}

func TestLoadConfigTopKOverride(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.json",
		[]byte(`{"gemini_api_key":"test-key","policy_top_k":3,"email_top_k":12}`), 0644))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, config.PolicyTopK)
	assert.Equal(t, 12, config.EmailTopK)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.json", []byte(`{"gemini_api_key":"file-key"}`), 0644))
	t.Setenv("GEMINI_API_KEY", "env-key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-key", config.GeminiAPIKey)
}

func TestLoadConfigEnvOnly(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.json", []byte(`{}`), 0644))
	t.Setenv("GEMINI_API_KEY", "env-key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-key", config.GeminiAPIKey)
}
