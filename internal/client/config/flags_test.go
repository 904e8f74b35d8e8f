package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://auth:8080", "-s", "memory", "-d", "/tmp/s.db", "-r", "redis:6379", "-t", "7", "-l", "debug"},
			expected: &Config{
				BaseURL:        "http://auth:8080",
				StoreBackend:   "memory",
				SQLitePath:     "/tmp/s.db",
				RedisAddr:      "redis:6379",
				RequestTimeout: 7 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-a=http://auth", "-config", "c.json"},
			expected: &Config{BaseURL: "http://auth"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
