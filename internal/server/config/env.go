package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "AUTHSTUB_"

// parseEnv overlays cfg with AUTHSTUB_* variables. A .env file in the working
// directory is loaded first if present; real environment variables win over
// it.
//
//	AUTHSTUB_ADDR               bind address
//	AUTHSTUB_SECRET             HS256 secret
//	AUTHSTUB_TOKEN_TTL_MINUTES  access token lifetime
//	AUTHSTUB_BCRYPT_COST        bcrypt cost
//	AUTHSTUB_ADMIN_EMAILS       comma-separated admin e-mails
//	AUTHSTUB_LOG_LEVEL          log level
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.SecretKey = getEnv("SECRET", cfg.SecretKey)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	ttl, err := getEnvAsInt("TOKEN_TTL_MINUTES", int(cfg.AccessTokenValidityDuration.Minutes()))
	if err != nil {
		return err
	}
	cfg.AccessTokenValidityDuration = time.Duration(ttl) * time.Minute

	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return err
	}

	if v := getEnv("ADMIN_EMAILS", ""); v != "" {
		cfg.AdminEmails = splitList(v)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return parsed, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
