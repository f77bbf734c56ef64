package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/estflash/internal/testutil"
)

// isolate runs the test in an empty directory with a clean viper
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)
	InitConfig(NewFlags())

	cfg, err := LoadConfig(NewFlags())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint32(5), cfg.API.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.API.BreakerCooldown)
	assert.Equal(t, 10, cfg.Study.DeckSize)
	assert.True(t, cfg.Audio.AutoPlay)
	assert.Empty(t, cfg.Audio.Player)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	testutil.CreateTestFile(t, cfgPath, []byte(`api:
  base_url: http://flash.example/api
  timeout: 3s
study:
  deck_size: 20
audio:
  auto_play: false
log:
  level: DEBUG
`))

	flags := NewFlags()
	flags.CfgFile = cfgPath
	InitConfig(flags)

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "http://flash.example/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.Study.DeckSize)
	assert.False(t, cfg.Audio.AutoPlay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ESTFLASH_STUDY_DECK_SIZE", "7")
	t.Setenv("ESTFLASH_API_BREAKER_FAILURES", "2")

	InitConfig(NewFlags())
	cfg, err := LoadConfig(NewFlags())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Study.DeckSize)
	assert.Equal(t, uint32(2), cfg.API.BreakerFailures)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := isolate(t)
	testutil.CreateTestFile(t, filepath.Join(dir, ".env"), []byte("ESTFLASH_AUDIO_PLAYER=mpv --no-video\n"))
	t.Cleanup(func() { os.Unsetenv("ESTFLASH_AUDIO_PLAYER") })

	InitConfig(NewFlags())
	cfg, err := LoadConfig(NewFlags())
	require.NoError(t, err)
	assert.Equal(t, "mpv --no-video", cfg.Audio.Player)
}

func TestLoadConfigNoAutoPlay(t *testing.T) {
	isolate(t)
	InitConfig(NewFlags())

	flags := NewFlags()
	flags.NoAutoPlay = true
	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	assert.False(t, cfg.Audio.AutoPlay)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"deck too small", "study.deck_size", 0},
		{"deck too large", "study.deck_size", 101},
		{"bad url", "api.base_url", "not a url"},
		{"bad level", "log.level", "verbose"},
		{"no timeout", "api.timeout", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			InitConfig(NewFlags())
			viper.Set(tt.key, tt.value)

			_, err := LoadConfig(NewFlags())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
