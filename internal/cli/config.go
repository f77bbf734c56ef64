package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the validated application configuration
type Config struct {
	API struct {
		BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
		Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
		BreakerFailures uint32        `mapstructure:"breaker_failures" validate:"gte=1"`
		BreakerCooldown time.Duration `mapstructure:"breaker_cooldown" validate:"gt=0"`
	} `mapstructure:"api"`

	Study struct {
		DeckSize int `mapstructure:"deck_size" validate:"min=1,max=100"`
	} `mapstructure:"study"`

	Audio struct {
		AutoPlay bool   `mapstructure:"auto_play"`
		Player   string `mapstructure:"player"`
	} `mapstructure:"audio"`

	Log struct {
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	} `mapstructure:"log"`
}

var validate = validator.New()

// SetDefaults registers the default of every configuration key, so that
// each key can also be set from the environment
func SetDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:5000/api")
	viper.SetDefault("api.timeout", 15*time.Second)
	viper.SetDefault("api.breaker_failures", 5)
	viper.SetDefault("api.breaker_cooldown", 30*time.Second)
	viper.SetDefault("study.deck_size", 10)
	viper.SetDefault("audio.auto_play", true)
	viper.SetDefault("audio.player", "")
	viper.SetDefault("log.level", "info")
}

// InitConfig initializes viper configuration
func InitConfig(flags *Flags) {
	if err := loadEnvFile(flags.EnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", flags.EnvFile, err)
	}

	SetDefaults()

	if flags.CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(flags.CfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		// Search config in home directory with name ".estflash" (without extension)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".estflash")
	}

	// Environment variables, e.g. ESTFLASH_API_BASE_URL
	viper.SetEnvPrefix("ESTFLASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadConfig builds the configuration from viper and validates it.
// --no-auto-play wins over audio.auto_play.
func LoadConfig(flags *Flags) (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if flags != nil && flags.NoAutoPlay {
		cfg.Audio.AutoPlay = false
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
