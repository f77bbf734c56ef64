package session

import (
	"time"

	"codeberg.org/snonux/estflash/internal/models"
)

// Machine holds the parameters of the transition function
type Machine struct {
	// DeckSize is the number of cards requested per fetch
	DeckSize int
}

// Transition computes the next state for ev. Events that do not apply to
// the current phase leave the state unchanged and produce no effects.
func (m Machine) Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Start, Refresh:
		if s.Phase != PhaseIdle && s.Phase != PhaseEmpty {
			return s, nil
		}
		return m.load(s)

	case Loaded:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		s.Deck = ev.Deck
		s.Position = 0
		s.RevealedAt = time.Time{}
		s.Err = nil
		if ev.Deck.Len() == 0 {
			s.Phase = PhaseEmpty
			s.Deck = nil
		} else {
			s.Phase = PhaseReady
		}
		return s, nil

	case LoadFailed:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseEmpty
		s.Deck = nil
		s.Position = 0
		s.Err = ev.Err
		return s, nil

	case Reveal:
		card, ok := s.Current()
		if s.Phase != PhaseReady || !ok || ev.At.IsZero() {
			return s, nil
		}
		s.Phase = PhaseRevealed
		s.RevealedAt = ev.At
		return s, []Effect{PlayAudio{CardID: card.ID}}

	case Judge:
		card, ok := s.Current()
		if s.Phase != PhaseRevealed || !ok || s.RevealedAt.IsZero() {
			return s, nil
		}
		entry := models.NewStudyLogEntry(card.ID, ev.Correct, s.RevealedAt, ev.At)
		s.Stats.Record(ev.Correct)
		s.RevealedAt = time.Time{}
		effects := []Effect{PostLog{Entry: entry}}

		if s.Position+1 < s.Deck.Len() {
			s.Position++
			s.Phase = PhaseReady
			return s, effects
		}

		next, fetch := m.load(s)
		return next, append(effects, fetch...)

	case Listen:
		card, ok := s.Current()
		if !ok {
			return s, nil
		}
		return s, []Effect{PlayAudio{CardID: card.ID, Manual: true}}
	}

	return s, nil
}

// load discards the deck and requests a new one
func (m Machine) load(s State) (State, []Effect) {
	s.Phase = PhaseLoading
	s.Deck = nil
	s.Position = 0
	s.RevealedAt = time.Time{}
	s.Err = nil
	return s, []Effect{FetchDeck{Count: m.deckSize()}}
}

func (m Machine) deckSize() int {
	if m.DeckSize < 1 {
		return DefaultDeckSize
	}
	return m.DeckSize
}
