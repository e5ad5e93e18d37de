package envconf

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConf struct {
	DSN string `env:"TEST_NESTED_DSN" envDefault:"postgres://local"`
}

type testConf struct {
	Port     uint16        `env:"TEST_PORT" envDefault:"3000"`
	Name     string        `env:"TEST_NAME"`
	Timeout  time.Duration `env:"TEST_TIMEOUT" envDefault:"10s"`
	Level    slog.Level    `env:"TEST_LEVEL" envDefault:"WARN"`
	Verbose  bool          `env:"TEST_VERBOSE" envDefault:"false"`
	Postgres nestedConf
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("TEST_NAME", "hunter")
	t.Setenv("TEST_PORT", "8080")

	cfg := new(testConf)
	err := Load(cfg)
	require.NoError(t, err)

	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "hunter", cfg.Name)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "postgres://local", cfg.Postgres.DSN)
}

func TestLoad_MissingRequired(t *testing.T) {
	cfg := new(testConf)
	err := Load(cfg)
	require.ErrorIs(t, err, ErrMissingRequired)
}

func TestLoad_ParseFailure(t *testing.T) {
	t.Setenv("TEST_NAME", "hunter")
	t.Setenv("TEST_TIMEOUT", "not-a-duration")

	cfg := new(testConf)
	err := Load(cfg)
	require.Error(t, err)
}

func TestLoad_NonStructDestination(t *testing.T) {
	err := Load(nil)
	assert.Error(t, err)

	var s string
	err = Load(&s)
	assert.Error(t, err)
}
