package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects how callers are authenticated.
type Mode string

const (
	// ModeNone trusts debug identity headers; local development only.
	ModeNone Mode = "none"
	// ModeCognito verifies bearer tokens against the Cognito user pool.
	ModeCognito Mode = "cognito"
)

type Config struct {
	Region      string
	TableName   string
	UserPoolID  string
	AppClientID string
	AuthMode    Mode
	Port        string
}

// Load reads the environment (and an optional .env file) and fails on
// any missing connection parameter. A partially configured deployment
// must not come up at all.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Region:      os.Getenv("AWS_REGION"),
		TableName:   os.Getenv("TABLE_NAME"),
		UserPoolID:  os.Getenv("COGNITO_USER_POOL_ID"),
		AppClientID: os.Getenv("COGNITO_APP_CLIENT_ID"),
		AuthMode:    Mode(os.Getenv("AUTH_MODE")),
		Port:        os.Getenv("PORT"),
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = ModeCognito
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	switch cfg.AuthMode {
	case ModeNone, ModeCognito:
	default:
		return Config{}, fmt.Errorf("invalid AUTH_MODE %q (want none or cognito)", cfg.AuthMode)
	}

	var missing []string
	if cfg.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if cfg.TableName == "" {
		missing = append(missing, "TABLE_NAME")
	}
	if cfg.AuthMode == ModeCognito {
		if cfg.UserPoolID == "" {
			missing = append(missing, "COGNITO_USER_POOL_ID")
		}
		if cfg.AppClientID == "" {
			missing = append(missing, "COGNITO_APP_CLIENT_ID")
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
