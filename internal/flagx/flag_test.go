package flagx

import (
	"os"
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
			args:         []string{"-e", "prod.env", "-n", "sepolia"},
			allowedFlags: []string{"-e", "--envfile"},
			want:         []string{"-e", "prod.env"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--envfile=alt.env", "-n", "sepolia"},
			allowedFlags: []string{"-e", "--envfile"},
			want:         []string{"--envfile=alt.env"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-e", "--envfile"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-e"},
			allowedFlags: []string{"-e"},
			want:         []string{"-e"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-e", "--envfile=alt.env"},
			allowedFlags: []string{"-e"},
			want:         []string{"-e"},
		},
		{
			name:         "dash count does not affect matching",
			args:         []string{"--envfile=alt.env", "--e", "x.env"},
			allowedFlags: []string{"-e", "-envfile"},
			want:         []string{"--envfile=alt.env", "--e", "x.env"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-n", "localhost", "-e", "dev.env", "--other", "x"},
			allowedFlags: []string{"-e", "-n"},
			want:         []string{"-n", "localhost", "-e", "dev.env"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-e"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvFileFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"dropgen", "-e", "custom.env", "-n", "sepolia"}
	assert.Equal(t, "custom.env", EnvFileFlags())

	os.Args = []string{"dropgen", "--envfile=other.env"}
	assert.Equal(t, "other.env", EnvFileFlags())

	os.Args = []string{"dropgen"}
	assert.Equal(t, "", EnvFileFlags())
}
