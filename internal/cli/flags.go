package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	EnvFile  string
	LogLevel string

	// Service flags
	BaseURL string
	Timeout time.Duration

	// Study flags
	DeckSize   int
	NoAutoPlay bool
	Player     string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		EnvFile:  ".env",
		LogLevel: "info",
		BaseURL:  "http://localhost:5000/api",
		Timeout:  15 * time.Second,
		DeckSize: 10,
	}
}
