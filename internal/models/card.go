package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CardID is the opaque identifier the service assigns to a word.
// The service currently sends integers, but nothing here relies on that.
type CardID string

// String returns the identifier as text
func (id CardID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is unset
func (id CardID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts both JSON numbers and JSON strings
func (id *CardID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid card id %s: %w", data, err)
		}
		*id = CardID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid card id %s: %w", data, err)
	}
	*id = CardID(n.String())
	return nil
}

// MarshalJSON writes integer identifiers as JSON numbers so the service's
// integer word_id column receives the same value it sent
func (id CardID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Card is a single flashcard as received from the recommendation endpoint
type Card struct {
	ID          CardID `json:"id"`
	Estonian    string `json:"estonian"`
	Translation string `json:"translation"`
}

// Deck is the current ordered batch of cards. It is fixed at fetch time
// and replaced as a whole.
type Deck []Card

// Len returns the number of cards in the deck
func (d Deck) Len() int {
	return len(d)
}

// At returns the card at position i
func (d Deck) At(i int) (Card, bool) {
	if i < 0 || i >= len(d) {
		return Card{}, false
	}
	return d[i], true
}

// Clone returns a copy that shares no backing array with d
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
