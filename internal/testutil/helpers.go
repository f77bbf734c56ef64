package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/snonux/estflash/internal/models"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateWordList writes a word list (one word per line) into a temp dir
// and returns its path
func CreateWordList(t *testing.T, words ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt")
	content := ""
	for _, w := range words {
		content += w + "\n"
	}
	CreateTestFile(t, path, []byte(content))
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// SampleDeck returns n cards with integer ids starting at 1
func SampleDeck(n int) models.Deck {
	words := []struct{ et, en string }{
		{"tere", "hello"},
		{"aitäh", "thank you"},
		{"koer", "dog"},
		{"kass", "cat"},
		{"leib", "bread"},
		{"vesi", "water"},
		{"raamat", "book"},
		{"tool", "chair"},
		{"aken", "window"},
		{"maja", "house"},
	}

	deck := make(models.Deck, 0, n)
	for i := 0; i < n; i++ {
		w := words[i%len(words)]
		deck = append(deck, models.Card{
			ID:          models.CardID(strconv.Itoa(i + 1)),
			Estonian:    w.et,
			Translation: w.en,
		})
	}
	return deck
}

// MP3Data returns bytes that start like an MPEG audio frame
func MP3Data() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
