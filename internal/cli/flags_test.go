package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"EnvFile", flags.EnvFile, ".env"},
		{"LogLevel", flags.LogLevel, "info"},
		{"BaseURL", flags.BaseURL, "http://localhost:5000/api"},
		{"Timeout", flags.Timeout, 15 * time.Second},
		{"DeckSize", flags.DeckSize, 10},
		{"NoAutoPlay", flags.NoAutoPlay, false},
		{"CfgFile", flags.CfgFile, ""},
		{"Player", flags.Player, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
