package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by all settings.
const EnvPrefix = "mushrelay"

// Config is the static configuration surface, loaded once at process start
// and never mutated afterwards.
type Config struct {
	App      AppConfig
	Identity IdentityConfig
	Form     FormSinkConfig
	Endpoint EndpointSinkConfig
	Download DownloadSinkConfig
	DB       DBConfig
	Admin    AdminConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Addr       string `envconfig:"MUSHRELAY_ADDR" default:":8080"`
	LogLevel   string `envconfig:"MUSHRELAY_LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"MUSHRELAY_LOG_FORMAT" default:"json" validate:"oneof=json console"`
	ClientInfo string `envconfig:"MUSHRELAY_CLIENT_INFO" default:"mushrelay"`
	// StaticDir, when set, serves the webMUSHRA front end from disk.
	StaticDir string `envconfig:"MUSHRELAY_STATIC_DIR"`
	// SinkTimeout bounds each outbound sink attempt. The original front end
	// had no timeout at all and would hang on a stalled endpoint.
	SinkTimeout time.Duration `envconfig:"MUSHRELAY_SINK_TIMEOUT" default:"15s"`
}

// IdentityConfig controls how the participant id is acquired at session start.
type IdentityConfig struct {
	Required     bool `envconfig:"MUSHRELAY_ID_REQUIRED" default:"true"`
	AutoGenerate bool `envconfig:"MUSHRELAY_ID_AUTOGENERATE" default:"true"`
}

// FormSinkConfig addresses a form-based collector. The field carries the
// entire payload JSON as a single form value.
type FormSinkConfig struct {
	Enabled bool   `envconfig:"MUSHRELAY_FORM_ENABLED" default:"false"`
	URL     string `envconfig:"MUSHRELAY_FORM_URL" validate:"omitempty,url"`
	Field   string `envconfig:"MUSHRELAY_FORM_FIELD" default:"results"`
}

type EndpointSinkConfig struct {
	Enabled bool   `envconfig:"MUSHRELAY_ENDPOINT_ENABLED" default:"false"`
	URL     string `envconfig:"MUSHRELAY_ENDPOINT_URL" validate:"omitempty,url"`
	Method  string `envconfig:"MUSHRELAY_ENDPOINT_METHOD" default:"POST" validate:"oneof=POST PUT PATCH"`
}

type DownloadSinkConfig struct {
	Enabled bool   `envconfig:"MUSHRELAY_DOWNLOAD_ENABLED" default:"true"`
	Dir     string `envconfig:"MUSHRELAY_DOWNLOAD_DIR" default:"results"`
}

// DBConfig selects the collector store. An empty path keeps submissions in
// memory only, which is fine for relay-only deployments.
type DBConfig struct {
	Path          string `envconfig:"MUSHRELAY_SQLITE_PATH"`
	MigrationsDir string `envconfig:"MUSHRELAY_MIGRATIONS_DIR"`
}

// AdminConfig holds the single operator account. The password is supplied as
// a bcrypt hash; leaving it empty disables the admin surface.
type AdminConfig struct {
	Email        string `envconfig:"MUSHRELAY_ADMIN_EMAIL" validate:"omitempty,email"`
	PasswordHash string `envconfig:"MUSHRELAY_ADMIN_PASSWORD_HASH"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"MUSHRELAY_JWT_SECRET" default:"mushrelay-dev-secret"`
	TokenTTL time.Duration `envconfig:"MUSHRELAY_JWT_TTL" default:"12h"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies struct tags plus the cross-field rules an enabled sink
// implies.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Form.Enabled && c.Form.URL == "" {
		return fmt.Errorf("invalid config: form sink enabled without MUSHRELAY_FORM_URL")
	}
	if c.Form.Enabled && c.Form.Field == "" {
		return fmt.Errorf("invalid config: form sink enabled without MUSHRELAY_FORM_FIELD")
	}
	if c.Endpoint.Enabled && c.Endpoint.URL == "" {
		return fmt.Errorf("invalid config: endpoint sink enabled without MUSHRELAY_ENDPOINT_URL")
	}
	if c.Download.Enabled && c.Download.Dir == "" {
		return fmt.Errorf("invalid config: download sink enabled without MUSHRELAY_DOWNLOAD_DIR")
	}
	if c.Admin.Email != "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("invalid config: admin email set without MUSHRELAY_ADMIN_PASSWORD_HASH")
	}
	return nil
}

// AdminEnabled reports whether the operator surface should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Email != "" && c.Admin.PasswordHash != ""
}
