// Package config loads the service configuration from YAML with
// environment-variable overrides. Secrets (JWT secret, provider client
// secrets, DSNs) are expected from the environment in prod; YAML values
// are a dev convenience.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Storage struct {
		Driver string `yaml:"driver"` // postgres | memory
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Providers struct {
		Google ProviderCredentials `yaml:"google"`
		Naver  ProviderCredentials `yaml:"naver"`
		Kakao  ProviderCredentials `yaml:"kakao"`
	} `yaml:"providers"`

	Rate struct {
		Enabled bool      `yaml:"enabled"`
		Login   RateLimit `yaml:"login"`
		Refresh RateLimit `yaml:"refresh"`
	} `yaml:"rate"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// RateLimit configures one endpoint's fixed window.
type RateLimit struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

// ParsedWindow returns the window duration. Load validated it.
func (r RateLimit) ParsedWindow() time.Duration {
	d, _ := time.ParseDuration(r.Window)
	return d
}

// ProviderCredentials configures one OAuth2 provider. A provider with an
// empty client_id is not registered.
type ProviderCredentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Enabled reports whether the provider has credentials configured.
func (p ProviderCredentials) Enabled() bool { return strings.TrimSpace(p.ClientID) != "" }

// AccessTTL returns the parsed access-token lifetime. Load validated it.
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// RefreshTTL returns the parsed refresh-token lifetime. Load validated it.
func (c *Config) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTTL)
	return d
}

// Load reads the YAML file at path, applies defaults and env overrides,
// and validates the result. A missing file is not an error: an empty
// config plus env vars is a supported deployment mode.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only mode
	default:
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "auth:"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "30m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "336h" // 14d
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.Refresh.Limit == 0 {
		c.Rate.Refresh.Limit = 60
	}
	if c.Rate.Refresh.Window == "" {
		c.Rate.Refresh.Window = "1m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.JWT.AccessTTL); err != nil {
		return fmt.Errorf("config: jwt.access_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshTTL); err != nil {
		return fmt.Errorf("config: jwt.refresh_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Rate.Login.Window); err != nil {
		return fmt.Errorf("config: rate.login.window: %w", err)
	}
	if _, err := time.ParseDuration(c.Rate.Refresh.Window); err != nil {
		return fmt.Errorf("config: rate.refresh.window: %w", err)
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind)
	}
	if c.Storage.Driver == "postgres" && strings.TrimSpace(c.Storage.DSN) == "" {
		return errors.New("config: storage.driver=postgres requires storage.dsn")
	}
	if c.Cache.Kind == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("config: cache.kind=redis requires cache.redis.addr")
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides lets environment variables replace YAML values, so
// secrets never need to live in the file.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}

	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}

	type envPair struct {
		prefix string
		creds  *ProviderCredentials
	}
	for _, p := range []envPair{
		{"GOOGLE", &c.Providers.Google},
		{"NAVER", &c.Providers.Naver},
		{"KAKAO", &c.Providers.Kakao},
	} {
		if v, ok := getEnvStr(p.prefix + "_CLIENT_ID"); ok {
			p.creds.ClientID = v
		}
		if v, ok := getEnvStr(p.prefix + "_CLIENT_SECRET"); ok {
			p.creds.ClientSecret = v
		}
	}

	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}
