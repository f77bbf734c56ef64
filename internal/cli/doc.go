// Package cli provides command-line interface setup and configuration
// for the estflash application. It handles flag parsing, command
// creation, and configuration loading using cobra, viper and godotenv.
package cli
