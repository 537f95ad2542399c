package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "onepct"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultBackendURL = "http://localhost:8001"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Profile  ProfileConfig
	Submit   SubmitConfig
	Download DownloadConfig
	Guard    GuardConfig
	Stub     StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ONEPCT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"ONEPCT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ONEPCT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type BackendConfig struct {
	URL string `envconfig:"ONEPCT_BACKEND_URL"`

	// DeployHostname mirrors the hostname inference the hosted builds use:
	// when no explicit URL is configured the backend is assumed to live on
	// the same host over HTTPS.
	DeployHostname string `envconfig:"ONEPCT_DEPLOY_HOSTNAME"`
}

// BaseURL resolves the backend base URL: explicit config first, then the
// deploy hostname, then the local development default.
func (b BackendConfig) BaseURL() string {
	if u := strings.TrimSpace(b.URL); u != "" {
		return strings.TrimRight(u, "/")
	}
	if h := strings.TrimSpace(b.DeployHostname); h != "" && h != "localhost" && h != "127.0.0.1" {
		return "https://" + h
	}
	return DefaultBackendURL
}

type DatabaseConfig struct {
	URL    string `envconfig:"ONEPCT_SUPABASE_URL"`
	Key    string `envconfig:"ONEPCT_SUPABASE_KEY"`
	Schema string `envconfig:"ONEPCT_SUPABASE_SCHEMA" default:"public"`
}

// Configured reports whether the direct database sink can be used at all.
func (d DatabaseConfig) Configured() bool {
	return strings.TrimSpace(d.URL) != "" && strings.TrimSpace(d.Key) != ""
}

type ProfileConfig struct {
	Dir string `envconfig:"ONEPCT_PROFILE_DIR"`
}

// SubmitConfig selects the system of record for checkout writes.
// Recognized values: "direct", "legacy", "both" (direct as system of record
// with a best-effort mirror to the legacy backend).
type SubmitConfig struct {
	Sink string `envconfig:"ONEPCT_SUBMIT_SINK" default:"direct"`
}

type DownloadConfig struct {
	Dir string `envconfig:"ONEPCT_DOWNLOAD_DIR" default:"."`
}

// GuardConfig names the precondition required to enter each protected view.
// Recognized values: "none", "non-empty-cart", "checkout-data".
type GuardConfig struct {
	Store        string `envconfig:"ONEPCT_GUARD_STORE" default:"none"`
	Cart         string `envconfig:"ONEPCT_GUARD_CART" default:"none"`
	Checkout     string `envconfig:"ONEPCT_GUARD_CHECKOUT" default:"non-empty-cart"`
	Confirmation string `envconfig:"ONEPCT_GUARD_CONFIRMATION" default:"non-empty-cart"`
}

type StubConfig struct {
	Port             string `envconfig:"ONEPCT_STUB_PORT" default:"8001"`
	AdminUsername    string `envconfig:"ONEPCT_ADMIN_USERNAME"`
	AdminPassword    string `envconfig:"ONEPCT_ADMIN_PASSWORD"`
	JWTSecret        string `envconfig:"ONEPCT_JWT_SECRET"`
	JWTExpiryMinutes int    `envconfig:"ONEPCT_JWT_EXPIRY_MINUTES" default:"1440"`
	DBPath           string `envconfig:"ONEPCT_STUB_DB_PATH" default:"stub.db"`
	APIKey           string `envconfig:"ONEPCT_STUB_API_KEY"`
}
