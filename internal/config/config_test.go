package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Proxy.Addr)
	assert.Equal(t, ":5001", cfg.Advisor.Addr)
	assert.Equal(t, ProviderOllama, cfg.Runtime.Provider)
	assert.Equal(t, "deepseek-r1:1.5b", cfg.Runtime.DefaultModel)
	assert.InDelta(t, 0.7, cfg.Runtime.DefaultTemperature, 1e-9)
	assert.Equal(t, DefaultSystemPrompt, cfg.Runtime.SystemPrompt)
	assert.Equal(t, "deepseek", cfg.Runtime.ModelMarker)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROXY_ADDR", "8080")
	t.Setenv("ADVISOR_ADDR", "127.0.0.1:9000")
	t.Setenv("DEFAULT_MODEL", "llama3")
	t.Setenv("DEFAULT_TEMPERATURE", "1.2")
	t.Setenv("SYSTEM_PROMPT", "be brief")
	t.Setenv("RUNTIME_PROVIDER", "OLLAMA")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Proxy.Addr)
	assert.Equal(t, "127.0.0.1:9000", cfg.Advisor.Addr)
	assert.Equal(t, "llama3", cfg.Runtime.DefaultModel)
	assert.InDelta(t, 1.2, cfg.Runtime.DefaultTemperature, 1e-9)
	assert.Equal(t, "be brief", cfg.Runtime.SystemPrompt)
	assert.Equal(t, ProviderOllama, cfg.Runtime.Provider)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "runtime:\n  default_model: deepseek-r1:7b\n  model_marker: r1\nproxy:\n  addr: \":7000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deepseek-r1:7b", cfg.Runtime.DefaultModel)
	assert.Equal(t, "r1", cfg.Runtime.ModelMarker)
	assert.Equal(t, ":7000", cfg.Proxy.Addr)
}

func TestLoadRejectsInvalidAddress(t *testing.T) {
	t.Setenv("PROXY_ADDR", "local host:80")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid PROXY_ADDR")
}

func TestRuntimeValidate(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("RUNTIME_PROVIDER", "llamacpp")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Runtime.Validate(), "unknown RUNTIME_PROVIDER")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Setenv("DEFAULT_TEMPERATURE", "3.5")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Runtime.Validate(), "DEFAULT_TEMPERATURE")
	})

	t.Run("ark without credentials", func(t *testing.T) {
		t.Setenv("RUNTIME_PROVIDER", "ark")
		t.Setenv("ARK_API_KEY", "")
		t.Setenv("ARK_MODEL", "")
		cfg, err := Load("")
		require.NoError(t, err, "runtime settings must not block loading")
		assert.ErrorContains(t, cfg.Runtime.Validate(), "ark provider requires")
	})

	t.Run("defaults are valid", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.NoError(t, cfg.Runtime.Validate())
	})
}

func TestLoadArkUsesEndpointAsDefaultModel(t *testing.T) {
	t.Setenv("RUNTIME_PROVIDER", "ark")
	t.Setenv("ARK_MODEL", "ep-123")
	t.Setenv("ARK_API_KEY", "key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ep-123", cfg.Runtime.DefaultModel)
	assert.NoError(t, cfg.Runtime.Validate())
}

func TestRuntimeURLs(t *testing.T) {
	cases := []struct {
		host     string
		base     string
		daemon   string
		openaiV1 string
	}{
		{"http://localhost:11434", "http://localhost:11434", "localhost:11434", "http://localhost:11434/v1"},
		{"127.0.0.1:11500/", "http://127.0.0.1:11500", "127.0.0.1:11500", "http://127.0.0.1:11500/v1"},
		{"http://ollama", "http://ollama", "ollama:11434", "http://ollama/v1"},
		{"", "http://localhost:11434", "localhost:11434", "http://localhost:11434/v1"},
	}
	for _, tc := range cases {
		rc := RuntimeConfig{OllamaHost: tc.host}
		assert.Equal(t, tc.base, rc.BaseURL(), tc.host)
		assert.Equal(t, tc.daemon, rc.DaemonAddr(), tc.host)
		assert.Equal(t, tc.openaiV1, rc.OpenAIBaseURL(), tc.host)
	}
}
