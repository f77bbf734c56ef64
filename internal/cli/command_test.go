package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	called string
	arg    string
}

func (r *recorder) handlers() *Handlers {
	return &Handlers{
		GUI: func(*cobra.Command) error {
			r.called = "gui"
			return nil
		},
		Study: func(*cobra.Command) error {
			r.called = "study"
			return nil
		},
		Import: func(_ *cobra.Command, path string) error {
			r.called, r.arg = "import", path
			return errors.New("Error: Invalid file format")
		},
		AudioURL: func(_ *cobra.Command, id string) error {
			r.called, r.arg = "audio-url", id
			return nil
		},
	}
}

func execute(t *testing.T, args ...string) (*recorder, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	rec := &recorder{}
	cmd := CreateRootCommand(NewFlags(), rec.handlers())
	if args == nil {
		args = []string{} // nil makes cobra read os.Args
	}
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return rec, cmd.Execute()
}

func TestCreateRootCommand(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := CreateRootCommand(NewFlags(), (&recorder{}).handlers())
	assert.Equal(t, "estflash", cmd.Use)
	assert.Contains(t, cmd.Short, "Estonian")

	for _, name := range []string{"config", "env-file", "log-level", "api-url", "timeout", "deck-size", "no-auto-play", "player"} {
		t.Run("flag_"+name, func(t *testing.T) {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "expected flag %s to exist", name)
		})
	}

	for _, name := range []string{"study", "import", "audio-url"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestCommandRouting(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		called  string
		arg     string
		wantErr bool
	}{
		{"default is gui", nil, "gui", "", false},
		{"study", []string{"study"}, "study", "", false},
		{"import", []string{"import", "words.txt"}, "import", "words.txt", true},
		{"audio url", []string{"audio-url", "42"}, "audio-url", "42", false},
		{"import needs a file", []string{"import"}, "", "", true},
		{"no positional args on root", []string{"tere"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.called, rec.called)
			assert.Equal(t, tt.arg, rec.arg)
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	cmd.PersistentFlags().Set("api-url", "http://flash.example:8080/api")
	cmd.PersistentFlags().Set("deck-size", "25")
	cmd.PersistentFlags().Set("player", "mpv --no-video")
	cmd.PersistentFlags().Set("log-level", "debug")

	assert.Equal(t, "http://flash.example:8080/api", viper.GetString("api.base_url"))
	assert.Equal(t, 25, viper.GetInt("study.deck_size"))
	assert.Equal(t, "mpv --no-video", viper.GetString("audio.player"))
	assert.Equal(t, "debug", viper.GetString("log.level"))
}
