// Package config loads settings for both the API server and the tracker
// client from the environment, with an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	GeminiAPIKey string
	GeminiModel  string

	GmailCredentials string
	GmailToken       string
	GmailSender      string

	APIBase      string
	UserID       string
	Debounce     time.Duration
	SaveStateTTL time.Duration
	HTTPTimeout  time.Duration

	LogFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=password dbname=jobtracker port=5432 sslmode=disable")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GMAIL_CREDENTIALS", "credential.json")
	v.SetDefault("GMAIL_TOKEN", "token.json")
	v.SetDefault("API_BASE", "http://localhost:8080/applications")
	v.SetDefault("USER_ID", "current-user-id")
	v.SetDefault("DEBOUNCE", "1s")
	v.SetDefault("SAVE_STATE_TTL", "2s")
	v.SetDefault("HTTP_TIMEOUT", "15s")
}

// Load reads envFiles (missing files are ignored) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		GmailCredentials: v.GetString("GMAIL_CREDENTIALS"),
		GmailToken:       v.GetString("GMAIL_TOKEN"),
		GmailSender:      v.GetString("GMAIL_SENDER"),
		APIBase:          strings.TrimRight(v.GetString("API_BASE"), "/"),
		UserID:           v.GetString("USER_ID"),
		LogFile:          v.GetString("LOG_FILE"),
	}

	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	if cfg.Debounce, err = duration(v, "DEBOUNCE"); err != nil {
		return nil, err
	}
	if cfg.SaveStateTTL, err = duration(v, "SAVE_STATE_TTL"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

// AllowAllOrigins reports whether CORS should accept any origin.
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 0 || (len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*")
}
