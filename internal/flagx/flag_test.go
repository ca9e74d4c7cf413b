package flagx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short -c with value", args: []string{"-c", "/path/short.json"}, want: "/path/short.json"},
		{name: "short joined", args: []string{"-c/path/joined.json"}, want: "/path/joined.json"},
		{name: "long --config with equals", args: []string{"stats", "--config=/path/long.yaml"}, want: "/path/long.yaml"},
		{name: "long --config with value", args: []string{"--config", "/path/long.json", "users"}, want: "/path/long.json"},
		{name: "unknown flags are ignored", args: []string{"-x", "1", "--y", "2"}},
		{name: "multiple flags, last wins", args: []string{"-c", "/path/1.json", "--config", "/path/2.json"}, want: "/path/2.json"},
		{name: "help is left to the command tree", args: []string{"--help", "-c", "conf.json"}, want: "conf.json"},
		{name: "version is left to the command tree", args: []string{"-v"}},
		{name: "stops at terminator", args: []string{"--", "-c", "ignored.json"}},
		{name: "empty args", args: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFlagSet("test")
			path := ConfigFileFlag(fs)
			require.NoError(t, fs.Parse(tt.args))
			assert.Equal(t, tt.want, *path)
		})
	}
}

func TestConfigFileFlag_MissingValue(t *testing.T) {
	fs := NewFlagSet("test")
	ConfigFileFlag(fs)
	require.Error(t, fs.Parse([]string{"-c"}))
}

func TestNewFlagSet_ShorthandClusters(t *testing.T) {
	fs := NewFlagSet("test")
	path := ConfigFileFlag(fs)
	timeout := fs.DurationP("timeout", "t", 0, "")
	addr := fs.StringP("addr", "a", "", "")

	require.NoError(t, fs.Parse([]string{"stats", "-t5s", "-ahttps://cre8tlystudio.com/api"}))
	assert.Equal(t, 5*time.Second, *timeout)
	assert.Equal(t, "https://cre8tlystudio.com/api", *addr)
	assert.Empty(t, *path)
	assert.True(t, fs.Changed("timeout"))
	assert.False(t, fs.Changed("config"))
}
