package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authsession/internal/flagx"
	"github.com/dmitrijs2005/authsession/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value alone.
type JSONConfig struct {
	BaseURL        string          `json:"base_url"`
	StoreBackend   string          `json:"store_backend"`
	SQLitePath     string          `json:"sqlite_path"`
	RedisAddr      string          `json:"redis_addr"`
	RedisDB        *int            `json:"redis_db"`
	RedisPrefix    string          `json:"redis_prefix"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c / -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.SQLitePath, jc.SQLitePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
