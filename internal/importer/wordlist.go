package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrEmptyList is returned for word lists without a single word
var ErrEmptyList = errors.New("word list contains no words")

// WordList is a word list file checked before upload. Content is the file
// unchanged; the service stores every non-blank line as one word.
type WordList struct {
	Content []byte
	Words   int
}

// ReadWordList reads and checks a word list file
func ReadWordList(filename string) (*WordList, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	return ParseWordList(f)
}

// ParseWordList reads a word list and checks that it is valid UTF-8 and
// holds at least one non-blank line
func ParseWordList(r io.Reader) (*WordList, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	words := 0
	for i, line := range splitLines(string(content)) {
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d is not valid UTF-8", i+1)
		}
		if strings.TrimSpace(line) != "" {
			words++
		}
	}

	if words == 0 {
		return nil, ErrEmptyList
	}
	return &WordList{Content: content, Words: words}, nil
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
