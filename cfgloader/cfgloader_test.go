package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/lambdakit/cfgloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logConfig struct {
	Level   string `yaml:"level"   default:"info"`
	Verbose *bool  `yaml:"verbose" default:"false"`
}

type testConfig struct {
	Region      string        `yaml:"region"      validate:"required"`
	Development bool          `yaml:"development"`
	Timeout     time.Duration `yaml:"timeout"     default:"3s"`
	MemoryMB    int           `yaml:"memory_mb"   default:"128"`
	Origins     []string      `yaml:"origins"`
	APIKey      string        `yaml:"api_key"     mask:"true"`
	Log         logConfig     `yaml:"log"`
}

type featureConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	Count   int  `yaml:"count"   default:"5"`
}

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)
	t.Setenv("SECRET_FROM_ENV", "k-123")
	dir := writeConfig(t, cfgloader.EnvTest, `
region: eu-central-1
api_key: ${SECRET_FROM_ENV}
log:
  level: debug
`)

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvPrefix("TEST"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "k-123", cfg.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 128, cfg.MemoryMB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)
	t.Setenv("TEST_REGION", "us-east-1")
	t.Setenv("TEST_LOG_LEVEL", "warn")
	dir := writeConfig(t, cfgloader.EnvTest, "region: eu-central-1\nlog:\n  level: debug\n")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvPrefix("TEST"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TEST_REGION", "eu-west-1")
	t.Setenv("TEST_DEVELOPMENT", "TRUE")
	t.Setenv("TEST_TIMEOUT", "250ms")
	t.Setenv("TEST_ORIGINS", "a.example,b.example")
	t.Setenv("TEST_LOG_VERBOSE", "1")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithEnvOnly(),
		cfgloader.WithEnvPrefix("TEST"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.True(t, cfg.Development)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins)
	require.NotNil(t, cfg.Log.Verbose)
	assert.True(t, *cfg.Log.Verbose)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 128, cfg.MemoryMB)
}

func TestLoad_ExplicitZeroOverridesDefault(t *testing.T) {
	t.Setenv("FEATURE_ENABLED", "false")
	t.Setenv("FEATURE_COUNT", "0")

	cfg, err := cfgloader.Load[featureConfig](
		cfgloader.WithEnvOnly(),
		cfgloader.WithEnvPrefix("FEATURE"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0, cfg.Count)
}

func TestLoad_FileZeroOverridesDefault(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)
	dir := writeConfig(t, cfgloader.EnvTest, "enabled: false\ncount: 0\n")

	cfg, err := cfgloader.Load[featureConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvPrefix("FEATURE"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0, cfg.Count)
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	cfg, err := cfgloader.Load[featureConfig](
		cfgloader.WithEnvOnly(),
		cfgloader.WithEnvPrefix("FEATURE"),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.Count)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		setup func(t *testing.T) []cfgloader.Option
		code  string
	}{
		{
			name: "invalid environment",
			env:  map[string]string{"ENVIRONMENT": "qa"},
			setup: func(*testing.T) []cfgloader.Option {
				return nil
			},
			code: cfgloader.CodeInvalidEnvironment,
		},
		{
			name: "missing file",
			env:  map[string]string{"ENVIRONMENT": cfgloader.EnvTest},
			setup: func(t *testing.T) []cfgloader.Option {
				return []cfgloader.Option{cfgloader.WithDir(t.TempDir())}
			},
			code: cfgloader.CodeFileNotFound,
		},
		{
			name: "malformed yaml",
			env:  map[string]string{"ENVIRONMENT": cfgloader.EnvTest},
			setup: func(t *testing.T) []cfgloader.Option {
				return []cfgloader.Option{cfgloader.WithDir(writeConfig(t, cfgloader.EnvTest, "region: [unclosed"))}
			},
			code: cfgloader.CodeMalformed,
		},
		{
			name: "bad env value",
			env:  map[string]string{"TEST_REGION": "x", "TEST_DEVELOPMENT": "maybe"},
			setup: func(*testing.T) []cfgloader.Option {
				return []cfgloader.Option{cfgloader.WithEnvOnly(), cfgloader.WithEnvPrefix("TEST")}
			},
			code: cfgloader.CodeMalformed,
		},
		{
			name: "validation",
			env:  map[string]string{"TEST_REGION": ""},
			setup: func(*testing.T) []cfgloader.Option {
				return []cfgloader.Option{cfgloader.WithEnvOnly(), cfgloader.WithEnvPrefix("TEST")}
			},
			code: cfgloader.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := append(tt.setup(t), cfgloader.WithSilent())

			_, err := cfgloader.Load[testConfig](opts...)

			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tt.code), "got %v", err)
		})
	}
}

func TestLoad_PointerTarget(t *testing.T) {
	_, err := cfgloader.Load[*testConfig](cfgloader.WithEnvOnly(), cfgloader.WithSilent())

	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidTarget))
}
