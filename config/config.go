package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned by Decode when a Rakuten credential is not configured.
var ErrMissingCredential = errors.New("missing rakuten credential")

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Rakuten struct {
		ApplicationID string `yaml:"application_id" env:"RAKUTEN_APP_ID"`
		AffiliateID   string `yaml:"affiliate_id" env:"RAKUTEN_AFFILIATE_ID"`
		Endpoint      string `yaml:"endpoint" env:"RAKUTEN_ENDPOINT" env-default:"https://app.rakuten.co.jp/services/api/BooksBook/Search/20170404"`
		GenreID       string `yaml:"genre_id" env:"RAKUTEN_GENRE_ID" env-default:"001"`
	} `yaml:"rakuten"`
	Cache struct {
		Revalidate time.Duration `yaml:"revalidate" env:"REVALIDATE" env-default:"1h"`
	} `yaml:"cache"`
	Fallback struct {
		File string `yaml:"file" env:"FALLBACK_FILE"`
	} `yaml:"fallback"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"LIMITER_RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"LIMITER_BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"CORS_TRUSTED_ORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"BASIC_AUTH_USERNAME"`
		Password string `yaml:"password" env:"BASIC_AUTH_PASSWORD"`
	} `yaml:"basic_auth"`
}

// Decode builds the configuration from the YAML file at path, when it exists, and the
// environment. Variables from .env.local are loaded first without overriding the real environment.
// Rakuten credentials have no built-in default and must be supplied.
func Decode(path string) (Config, error) {
	var cfg Config
	_ = godotenv.Load(".env.local")
	var err error
	if path != "" && fileExists(path) {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the app cannot start without.
func (c Config) Validate() error {
	if c.Rakuten.ApplicationID == "" {
		return fmt.Errorf("%w: RAKUTEN_APP_ID", ErrMissingCredential)
	}
	if c.Rakuten.AffiliateID == "" {
		return fmt.Errorf("%w: RAKUTEN_AFFILIATE_ID", ErrMissingCredential)
	}
	if c.Cache.Revalidate < 0 {
		return errors.New("cache revalidate window must not be negative")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
