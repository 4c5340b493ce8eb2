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
			args:         []string{"-c", "conf.json", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-s", "file"},
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
			name:         "next dash-prefixed token is not a value",
			args:         []string{"-s", "-p", "db.sqlite"},
			allowedFlags: []string{"-s", "-p"},
			want:         []string{"-s", "-p", "db.sqlite"},
		},
		{
			name:         "multiple allowed flags keep order",
			args:         []string{"-a", "http://h:1", "-t", "grpc", "--other", "x"},
			allowedFlags: []string{"-t", "-a"},
			want:         []string{"-a", "http://h:1", "-t", "grpc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFilePath([]string{"-a", "x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigFilePath([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigFilePath([]string{"-a", "x"}))
	assert.Equal(t, "", ConfigFilePath(nil))
}
