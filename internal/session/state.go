package session

import (
	"fmt"
	"time"

	"codeberg.org/snonux/estflash/internal/models"
)

// Phase is the coarse position of the session in its lifecycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseRevealed
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseRevealed:
		return "revealed"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session.
//
// RevealedAt is non-zero only in PhaseRevealed. Position is 0 whenever a
// deck is installed and always indexes into Deck while Ready or Revealed.
type State struct {
	Phase      Phase
	Deck       models.Deck
	Position   int
	RevealedAt time.Time
	Stats      models.StudyStats
	// Err is the last fetch failure, shown while Empty
	Err error
}

// Revealed reports whether the translation of the current card is shown
func (s State) Revealed() bool {
	return s.Phase == PhaseRevealed
}

// Current returns the card at the current position
func (s State) Current() (models.Card, bool) {
	if s.Phase != PhaseReady && s.Phase != PhaseRevealed {
		return models.Card{}, false
	}
	return s.Deck.At(s.Position)
}

// Busy reports whether a deck fetch is outstanding
func (s State) Busy() bool {
	return s.Phase == PhaseLoading
}

const (
	MsgLoading = "Loading flashcards..."
	MsgEmpty   = "No flashcards available. Please import some Estonian words first."
)

// Progress returns "Card X of Y" while a card is shown, otherwise ""
func (s State) Progress() string {
	if _, ok := s.Current(); !ok {
		return ""
	}
	return fmt.Sprintf("Card %d of %d", s.Position+1, s.Deck.Len())
}

// Status returns the message shown instead of a card, or "" when a card
// is shown
func (s State) Status() string {
	switch s.Phase {
	case PhaseIdle, PhaseLoading:
		return MsgLoading
	case PhaseEmpty:
		if s.Err != nil {
			return "Could not load flashcards: " + s.Err.Error()
		}
		return MsgEmpty
	default:
		return ""
	}
}

// clone copies the state so callers cannot reach the controller's deck
func (s State) clone() State {
	s.Deck = s.Deck.Clone()
	return s
}
