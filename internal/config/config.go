package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix                = "TEAMBOARD"
	defaultHTTPAddress       = "0.0.0.0:8080"
	defaultDatabaseDriver    = "sqlite"
	defaultDatabaseDSN       = "teamboard.db"
	defaultLogLevel          = "info"
	defaultCookieName        = "teamboard_session"
	defaultSessionTTLMinutes = 60
	defaultDirectoryTimeout  = 30
	defaultFrontendURL       = "http://localhost:3000"
)

// AppConfig captures runtime configuration for the API server. It is built
// once at startup and passed by value to every component that needs it.
type AppConfig struct {
	HTTPAddress string
	LogLevel    string

	DatabaseDriver string
	DatabaseDSN    string

	SessionSigningKey string
	SessionCookieName string
	SessionTTL        time.Duration

	OIDCClientID     string
	OIDCClientSecret string
	OIDCDiscoveryURL string
	OIDCRedirectURL  string

	DirectoryBaseURL string
	DirectoryTimeout time.Duration

	FrontendURL string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("database.driver", defaultDatabaseDriver)
	configViper.SetDefault("database.dsn", defaultDatabaseDSN)
	configViper.SetDefault("session.cookie_name", defaultCookieName)
	configViper.SetDefault("session.ttl_minutes", defaultSessionTTLMinutes)
	configViper.SetDefault("directory.timeout_seconds", defaultDirectoryTimeout)
	configViper.SetDefault("frontend.url", defaultFrontendURL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:       configViper.GetString("http.address"),
		LogLevel:          configViper.GetString("log.level"),
		DatabaseDriver:    configViper.GetString("database.driver"),
		DatabaseDSN:       configViper.GetString("database.dsn"),
		SessionSigningKey: configViper.GetString("session.signing_secret"),
		SessionCookieName: configViper.GetString("session.cookie_name"),
		SessionTTL:        time.Duration(configViper.GetInt("session.ttl_minutes")) * time.Minute,
		OIDCClientID:      configViper.GetString("oidc.client_id"),
		OIDCClientSecret:  configViper.GetString("oidc.client_secret"),
		OIDCDiscoveryURL:  configViper.GetString("oidc.discovery_url"),
		OIDCRedirectURL:   configViper.GetString("oidc.redirect_url"),
		DirectoryBaseURL:  configViper.GetString("directory.base_url"),
		DirectoryTimeout:  time.Duration(configViper.GetInt("directory.timeout_seconds")) * time.Second,
		FrontendURL:       configViper.GetString("frontend.url"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SessionSigningKey) == "" {
		return fmt.Errorf("session.signing_secret is required")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	driver := strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	if driver != "sqlite" && driver != "postgres" {
		return fmt.Errorf("database.driver must be sqlite or postgres")
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if strings.TrimSpace(c.OIDCClientID) == "" {
		return fmt.Errorf("oidc.client_id is required")
	}
	if strings.TrimSpace(c.OIDCClientSecret) == "" {
		return fmt.Errorf("oidc.client_secret is required")
	}
	if strings.TrimSpace(c.OIDCDiscoveryURL) == "" {
		return fmt.Errorf("oidc.discovery_url is required")
	}
	if strings.TrimSpace(c.OIDCRedirectURL) == "" {
		return fmt.Errorf("oidc.redirect_url is required")
	}
	if strings.TrimSpace(c.DirectoryBaseURL) == "" {
		return fmt.Errorf("directory.base_url is required")
	}
	return nil
}
