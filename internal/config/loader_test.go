package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trailSection struct {
	Length        int           `mapstructure:"length"`
	Speed         float64       `mapstructure:"speed"`
	FrameInterval time.Duration `mapstructure:"frame-interval"`
}

type testConfig struct {
	ConfigFile    string       `mapstructure:"config-file"`
	ListenAddress string       `mapstructure:"listen-address"`
	ListenPort    int          `mapstructure:"listen-port"`
	Debug         bool         `mapstructure:"debug"`
	MQTTServer    string       `mapstructure:"mqtt-server"`
	ContentFile   string       `mapstructure:"content-file"`
	Trail         trailSection `mapstructure:"trail"`
}

func (c *testConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Config file to use")
	fs.StringVar(&c.ListenAddress, "listen-address", c.ListenAddress, "Listen address")
	fs.IntVar(&c.ListenPort, "listen-port", c.ListenPort, "Listen port")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug mode")
	fs.IntVar(&c.Trail.Length, "trail.length", c.Trail.Length, "Trail length")
}

func testDefaults() map[string]any {
	return map[string]any{
		"listen-address":       "127.0.0.1",
		"listen-port":          8080,
		"debug":                false,
		"trail.length":         8,
		"trail.speed":          0.5,
		"trail.frame-interval": "16ms",
	}
}

func load(t *testing.T, file string, args ...string) (*testConfig, error) {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := &testConfig{ConfigFile: file}
	cfg.AddFlags(fs)
	require.NoError(t, fs.Parse(args))

	loader := NewConfigLoader()
	loader.SetConfigFile(file)
	loader.SetDefaults(testDefaults())

	return cfg, loader.LoadConfigWithFlagSet(cfg, fs)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.ListenAddress)
	assert.Equal(t, 8080, cfg.ListenPort)
	assert.Equal(t, 8, cfg.Trail.Length)
	assert.Equal(t, 16*time.Millisecond, cfg.Trail.FrameInterval)
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := load(t, "testdata/site.toml")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.100", cfg.ListenAddress)
	assert.Equal(t, 9090, cfg.ListenPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 12, cfg.Trail.Length)
	assert.Equal(t, 0.25, cfg.Trail.Speed)
	assert.Equal(t, 20*time.Millisecond, cfg.Trail.FrameInterval)
	assert.Equal(t, "testdata/site.toml", cfg.ConfigFile, "config file name is preserved")
}

func TestFlagPrecedence(t *testing.T) {
	cfg, err := load(t, "testdata/site.toml", "--listen-port", "7777", "--trail.length", "3")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.100", cfg.ListenAddress, "value from file")
	assert.Equal(t, 7777, cfg.ListenPort, "explicit flag beats file")
	assert.Equal(t, 3, cfg.Trail.Length, "nested flag beats file")
	assert.Equal(t, 0.25, cfg.Trail.Speed)
}

func TestEnvironmentExpansion(t *testing.T) {
	t.Setenv("CRMPRO_TEST_ADDRESS", "10.0.0.5")
	t.Setenv("CRMPRO_TEST_BROKER", "broker.local")

	cfg, err := load(t, "testdata/env.toml")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.ListenAddress)
	assert.Equal(t, "mqtt://broker.local:1883", cfg.MQTTServer)
	assert.Equal(t, "${CRMPRO_TEST_UNSET}", cfg.ContentFile, "unset variables are left alone")
}

func TestMissingFile(t *testing.T) {
	_, err := load(t, "testdata/does-not-exist.toml")
	assert.ErrorIs(t, err, ErrConfigFileRead)
}

func TestStrictMode(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := &testConfig{}
	cfg.AddFlags(fs)
	require.NoError(t, fs.Parse(nil))

	loader := NewConfigLoader()
	loader.SetConfigFile("testdata/unknown.toml")
	loader.SetStrictMode(true)

	err := loader.LoadConfigWithFlagSet(cfg, fs)
	assert.ErrorIs(t, err, ErrConfigUnmarshal)
	assert.Contains(t, err.Error(), "colour")
}

func TestSetConfigFileFieldRejectsNonPointer(t *testing.T) {
	loader := NewConfigLoader()
	err := loader.setConfigFileField(testConfig{}, "x")
	assert.ErrorIs(t, err, ErrConfigNotPointer)
}
