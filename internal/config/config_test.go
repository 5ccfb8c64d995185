// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies env expansion, duration parsing, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalConfig = `
matrix:
  homeserver: https://matrix.example.org
  user_id: "@polisbot:example.org"
  access_token: secret-token
`

func TestLoad_MinimalConfigGetsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "/start", cfg.Bot.ResetCommand)
	assert.Equal(t, ".", cfg.Bot.PolicyDir)
	assert.Equal(t, "none", cfg.Narrative.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Narrative.Gemini.Model)
	assert.Equal(t, "localhost:9108", cfg.Metrics.Addr)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_MATRIX_TOKEN", "expanded-token")

	cfg, err := Load(writeConfig(t, `
matrix:
  homeserver: https://matrix.example.org
  user_id: "@polisbot:example.org"
  access_token: ${TEST_MATRIX_TOKEN}
`))
	require.NoError(t, err)
	assert.Equal(t, "expanded-token", cfg.Matrix.AccessToken)
}

func TestLoad_ParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
narrative:
  provider: none
  cache_ttl: 10m
extraction:
  latency: 1s
`))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Narrative.CacheTTL)
	assert.Equal(t, time.Second, cfg.Extraction.Latency)
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
extraction:
  latency: soon
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latency")
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_RequiresMatrixSettings(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"missing homeserver",
			`
matrix:
  user_id: "@polisbot:example.org"
  access_token: tok
`,
			"matrix.homeserver",
		},
		{
			"missing user id",
			`
matrix:
  homeserver: https://matrix.example.org
  access_token: tok
`,
			"matrix.user_id",
		},
		{
			"missing access token",
			`
matrix:
  homeserver: https://matrix.example.org
  user_id: "@polisbot:example.org"
`,
			"matrix.access_token",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate_GeminiProviderNeedsKey(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
narrative:
  provider: gemini
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.api_key")
}

func TestValidate_OpenAIProviderNeedsAllSettings(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
narrative:
  provider: openai
  openai:
    endpoint: https://example.openai.azure.com
    api_key: key
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.deployment")
}

func TestValidate_UnknownProviderFails(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
narrative:
  provider: markov
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "narrative.provider")
}
