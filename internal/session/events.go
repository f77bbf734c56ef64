package session

import (
	"time"

	"codeberg.org/snonux/estflash/internal/models"
)

// Event is an input to Transition
type Event interface {
	isEvent()
}

// Start is the initial load when the study view appears
type Start struct{}

// Refresh asks for a new deck after the session ran dry
type Refresh struct{}

// Loaded delivers the result of a successful fetch
type Loaded struct {
	Deck models.Deck
}

// LoadFailed delivers a fetch failure
type LoadFailed struct {
	Err error
}

// Reveal shows the translation of the current card
type Reveal struct {
	At time.Time
}

// Judge records the user's verdict on the current card
type Judge struct {
	Correct bool
	At      time.Time
}

// Listen replays the current card's pronunciation
type Listen struct{}

func (Start) isEvent()      {}
func (Refresh) isEvent()    {}
func (Loaded) isEvent()     {}
func (LoadFailed) isEvent() {}
func (Reveal) isEvent()     {}
func (Judge) isEvent()      {}
func (Listen) isEvent()     {}

// Effect is a side effect requested by Transition
type Effect interface {
	isEffect()
}

// FetchDeck requests a new batch of Count cards
type FetchDeck struct {
	Count int
}

// PlayAudio plays the pronunciation of a card. Manual is set when the
// user asked for it rather than it following a reveal.
type PlayAudio struct {
	CardID models.CardID
	Manual bool
}

// PostLog sends a study log entry to the service
type PostLog struct {
	Entry models.StudyLogEntry
}

func (FetchDeck) isEffect() {}
func (PlayAudio) isEffect() {}
func (PostLog) isEffect()   {}
