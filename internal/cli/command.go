package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/estflash/internal"
)

// Handlers are the actions behind the commands
type Handlers struct {
	GUI      func(cmd *cobra.Command) error
	Study    func(cmd *cobra.Command) error
	Import   func(cmd *cobra.Command, path string) error
	AudioURL func(cmd *cobra.Command, id string) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, h *Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "estflash",
		Short: "Estonian Vocabulary Flashcards",
		Long: `estflash is a study client for the Estonian vocabulary flashcard service.

It fetches recommended cards, plays their pronunciation, reports how well
you knew each word, and uploads new word lists.

Examples:
  estflash                        # Launch interactive GUI (default)
  estflash study                  # Study in the terminal
  estflash import words.txt       # Upload a word list`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.GUI(cmd)
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "study",
			Short: "Study the recommended cards in the terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.Study(cmd)
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Upload a word list (one Estonian word per line)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.Import(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "audio-url <card-id>",
			Short: "Print the audio URL of a card",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.AudioURL(cmd, args[0])
			},
		},
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	fs := cmd.PersistentFlags()

	// Global flags
	fs.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.estflash.yaml)")
	fs.StringVar(&flags.EnvFile, "env-file", flags.EnvFile, "dotenv file with ESTFLASH_* variables (ignored when missing)")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&flags.BaseURL, "api-url", flags.BaseURL, "Base URL of the flashcard service")
	fs.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout for each request to the service")

	// Study flags
	fs.IntVarP(&flags.DeckSize, "deck-size", "n", flags.DeckSize, "Number of cards fetched per deck (1 to 100)")
	fs.BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback when a translation is shown")
	fs.StringVar(&flags.Player, "player", "", "Audio player command, e.g. 'mpv --no-video' (default: detect)")

	// Bind flags to viper
	bindFlagsToViper(fs)
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	viper.BindPFlag("log.level", fs.Lookup("log-level"))
	viper.BindPFlag("api.base_url", fs.Lookup("api-url"))
	viper.BindPFlag("api.timeout", fs.Lookup("timeout"))
	viper.BindPFlag("study.deck_size", fs.Lookup("deck-size"))
	viper.BindPFlag("audio.player", fs.Lookup("player"))
}
