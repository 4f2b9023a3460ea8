package tadau

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultCollectURL, cfg.CollectURL)
	assert.False(t, cfg.OptIn)
	assert.False(t, cfg.StrictOptIn)
	assert.NotNil(t, cfg.FixedDimensions)
	assert.IsType(t, &NoOpLogger{}, cfg.Logger)
}

func TestNewConfigWithOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithAPISecret("secret"),
		WithMeasurementID("G-12345"),
		WithOptIn(true),
		WithFixedDimensions(map[string]interface{}{"deploy_id": "X"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APISecret)
	assert.Equal(t, "G-12345", cfg.MeasurementID)
	assert.True(t, cfg.OptIn)
	assert.Equal(t, "X", cfg.FixedDimensions["deploy_id"])
}

func TestNewConfigMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "no credentials at all",
			opts: []Option{WithOptIn(true)},
		},
		{
			name: "missing api secret",
			opts: []Option{WithOptIn(true), WithMeasurementID("G-12345")},
		},
		{
			name: "missing measurement id",
			opts: []Option{WithOptIn(true), WithAPISecret("secret")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Shield the test from ambient credentials.
			t.Setenv("TADAU_API_SECRET", "")
			t.Setenv("TADAU_MEASUREMENT_ID", "")

			_, err := NewConfig(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestNewConfigStrictOptIn(t *testing.T) {
	// Strict mode refuses a no-op reporter even with valid credentials.
	_, err := NewConfig(
		WithStrictOptIn(true),
		WithAPISecret("secret"),
		WithMeasurementID("G-12345"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOptedOut)
	assert.True(t, IsConfigurationError(err))

	// Default mode allows constructing a disabled reporter.
	cfg, err := NewConfig(
		WithAPISecret("secret"),
		WithMeasurementID("G-12345"),
	)
	require.NoError(t, err)
	assert.False(t, cfg.OptIn)
}

func TestParseOptIn(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"  True  ", true},
		{"false", false},
		{"", false},
		{"yes", false},
		{"1", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOptIn(tt.value))
		})
	}
}

func TestWithOptInString(t *testing.T) {
	cfg, err := NewConfig(
		WithAPISecret("secret"),
		WithMeasurementID("G-12345"),
		WithOptInString(" TRUE "),
	)
	require.NoError(t, err)
	assert.True(t, cfg.OptIn)
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("TADAU_API_SECRET", "env-secret")
	t.Setenv("TADAU_MEASUREMENT_ID", "G-ENV")
	t.Setenv("TADAU_OPT_IN", "True")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.APISecret)
	assert.Equal(t, "G-ENV", cfg.MeasurementID)
	assert.True(t, cfg.OptIn)

	// Options override environment values.
	cfg, err = NewConfig(WithAPISecret("explicit"))
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.APISecret)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
api_secret: file-secret
measurement_id: G-FILE
opt_in: "True"
fixed_dimensions:
  deploy_id: bdb40a38-1325-4dd4-9121-3459cdbcfb70
`)

	cfg, err := NewConfig(WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.APISecret)
	assert.Equal(t, "G-FILE", cfg.MeasurementID)
	assert.True(t, cfg.OptIn)
	assert.Equal(t, "bdb40a38-1325-4dd4-9121-3459cdbcfb70", cfg.FixedDimensions["deploy_id"])
}

func TestNewConfigFilePrecedence(t *testing.T) {
	path := writeConfigFile(t, `
api_secret: file-secret
measurement_id: G-FILE
opt_in: true
`)

	cfg, err := NewConfig(
		WithAPISecret("explicit-secret"),
		WithMeasurementID("G-EXPLICIT"),
		WithConfigFile(path),
	)
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.APISecret)
	assert.Equal(t, "G-FILE", cfg.MeasurementID)
}

func TestNewConfigFileOptInBool(t *testing.T) {
	path := writeConfigFile(t, `
api_secret: file-secret
measurement_id: G-FILE
opt_in: true
`)

	cfg, err := NewConfig(WithConfigFile(path))
	require.NoError(t, err)
	assert.True(t, cfg.OptIn)
}

func TestNewConfigFileMissing(t *testing.T) {
	_, err := NewConfig(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestNewConfigFileMalformed(t *testing.T) {
	path := writeConfigFile(t, "api_secret: [unclosed")

	_, err := NewConfig(WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
