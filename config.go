package tadau

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCollectURL is the Google Analytics 4 Measurement Protocol
// collection endpoint.
const DefaultCollectURL = "https://www.google-analytics.com/mp/collect"

// Config holds all configuration options for the reporter.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// A YAML configuration file, when provided, is applied on top of all of
// the above: file values win over explicitly passed values.
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithAPISecret(secret),
//	    WithMeasurementID(id),
//	    WithOptIn(true),
//	    WithFixedDimensions(map[string]interface{}{"deploy_id": deployID}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// APISecret is the API secret of the chosen GA property.
	APISecret string `yaml:"api_secret" env:"TADAU_API_SECRET"`

	// MeasurementID is the measurement ID of the chosen GA property.
	MeasurementID string `yaml:"measurement_id" env:"TADAU_MEASUREMENT_ID"`

	// OptIn gates all network traffic. When false no event is ever sent.
	OptIn bool `yaml:"opt_in" env:"TADAU_OPT_IN"`

	// StrictOptIn refuses construction of a non-opted-in reporter.
	// Most callers want the default (false): a disabled reporter is a
	// valid no-op client.
	StrictOptIn bool `yaml:"strict_opt_in"`

	// FixedDimensions are sent with every single event fired.
	FixedDimensions map[string]interface{} `yaml:"fixed_dimensions"`

	// ConfigFile is an optional path to a YAML file with the fields above.
	ConfigFile string `yaml:"-" env:"TADAU_CONFIG_FILE"`

	// CollectURL overrides the collection endpoint. Used in tests.
	CollectURL string `yaml:"-"`

	// Logger receives validation warnings and dispatch diagnostics.
	Logger Logger `yaml:"-"`

	// HTTPClient performs the POST requests. Defaults to a traced client.
	HTTPClient HTTPDoer `yaml:"-"`
}

// Option is a functional option for configuring the reporter
type Option func(*Config) error

// WithAPISecret sets the GA property API secret.
func WithAPISecret(secret string) Option {
	return func(c *Config) error {
		c.APISecret = secret
		return nil
	}
}

// WithMeasurementID sets the GA property measurement ID.
func WithMeasurementID(id string) Option {
	return func(c *Config) error {
		c.MeasurementID = id
		return nil
	}
}

// WithOptIn sets the opt-in gate.
func WithOptIn(optIn bool) Option {
	return func(c *Config) error {
		c.OptIn = optIn
		return nil
	}
}

// WithOptInString sets the opt-in gate from a string value, typically an
// environment variable. The value is trimmed and compared
// case-insensitively against "true"; anything else means opted out.
func WithOptInString(optIn string) Option {
	return func(c *Config) error {
		c.OptIn = parseOptIn(optIn)
		return nil
	}
}

// WithStrictOptIn makes construction fail with ErrOptedOut when the
// final configuration is not opted in, instead of producing a no-op
// reporter.
func WithStrictOptIn(strict bool) Option {
	return func(c *Config) error {
		c.StrictOptIn = strict
		return nil
	}
}

// WithFixedDimensions sets parameters attached to every outgoing event.
func WithFixedDimensions(dims map[string]interface{}) Option {
	return func(c *Config) error {
		c.FixedDimensions = dims
		return nil
	}
}

// WithConfigFile loads configuration from a YAML file.
// The file path can be absolute or relative to the working directory.
// File values take precedence over explicitly passed options.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		c.ConfigFile = path
		return nil
	}
}

// WithCollectURL overrides the collection endpoint URL.
func WithCollectURL(url string) Option {
	return func(c *Config) error {
		c.CollectURL = url
		return nil
	}
}

// WithLogger sets the logger used for warnings and dispatch diagnostics.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to dispatch events.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		CollectURL:      DefaultCollectURL,
		FixedDimensions: map[string]interface{}{},
		Logger:          &NoOpLogger{},
	}
}

// NewConfig creates a new configuration with the provided options.
// Configuration is applied in the following order:
//  1. Default values from DefaultConfig()
//  2. Environment variables
//  3. Functional options
//  4. YAML config file, if one was set (highest priority)
//  5. Validation via Validate()
//
// Returns an error if any option fails or if the final configuration is
// invalid.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	cfg.loadFromEnv()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// File values win over explicit fields, matching the contract that a
	// deployed config file is the source of truth for credentials.
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromEnv overlays configuration from environment variables
func (c *Config) loadFromEnv() {
	if v := os.Getenv("TADAU_API_SECRET"); v != "" {
		c.APISecret = v
	}
	if v := os.Getenv("TADAU_MEASUREMENT_ID"); v != "" {
		c.MeasurementID = v
	}
	if v := os.Getenv("TADAU_OPT_IN"); v != "" {
		c.OptIn = parseOptIn(v)
	}
	if v := os.Getenv("TADAU_CONFIG_FILE"); v != "" {
		c.ConfigFile = v
	}
}

// fileConfig mirrors the YAML document shape. opt_in is decoded untyped
// because config files in the wild carry both booleans and strings.
type fileConfig struct {
	APISecret       string                 `yaml:"api_secret"`
	MeasurementID   string                 `yaml:"measurement_id"`
	OptIn           interface{}            `yaml:"opt_in"`
	FixedDimensions map[string]interface{} `yaml:"fixed_dimensions"`
}

// LoadFromFile overlays configuration from a YAML file.
// Missing files and malformed YAML are configuration errors: there are no
// fallback credentials, so a broken file must fail construction.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Op: "config.LoadFile", Field: path, Err: err}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return &ConfigError{Op: "config.LoadFile", Field: path, Err: err}
	}

	if fc.APISecret != "" {
		c.APISecret = fc.APISecret
	}
	if fc.MeasurementID != "" {
		c.MeasurementID = fc.MeasurementID
	}
	if fc.OptIn != nil {
		c.OptIn = parseOptInValue(fc.OptIn)
	}
	if fc.FixedDimensions != nil {
		c.FixedDimensions = fc.FixedDimensions
	}
	return nil
}

// Validate checks the configuration invariants:
//   - an opted-in reporter must carry both credentials
//   - a strict reporter must be opted in
func (c *Config) Validate() error {
	if c.OptIn && (c.APISecret == "" || c.MeasurementID == "") {
		return &ConfigError{Op: "config.Validate", Err: ErrMissingCredentials}
	}
	if c.StrictOptIn && !c.OptIn {
		return &ConfigError{Op: "config.Validate", Err: ErrOptedOut}
	}
	return nil
}

// parseOptIn interprets a string opt-in value
func parseOptIn(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// parseOptInValue interprets an untyped opt-in value from a config file
func parseOptInValue(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return parseOptIn(t)
	default:
		return false
	}
}
