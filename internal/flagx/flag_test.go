package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "http://localhost:3000"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-s", "redis"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-s", "-d", "session.db"},
			allowedFlags: []string{"-s", "-d"},
			want:         []string{"-s", "-d", "session.db"},
		},
		{
			name:         "value that looks like a flag in equals form",
			args:         []string{"-config=--weird.json"},
			allowedFlags: []string{"-config"},
			want:         []string{"-config=--weird.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-a", "http://x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", "http://x"}))
	assert.Equal(t, "", ConfigPath(nil))
}
