package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/estflash/internal/testutil"
)

func TestStateDisplay(t *testing.T) {
	deck := testutil.SampleDeck(3)

	tests := []struct {
		name     string
		state    State
		progress string
		status   string
	}{
		{"idle", State{}, "", MsgLoading},
		{"loading", State{Phase: PhaseLoading}, "", MsgLoading},
		{"empty", State{Phase: PhaseEmpty}, "", MsgEmpty},
		{
			"fetch failed",
			State{Phase: PhaseEmpty, Err: errors.New("service unavailable")},
			"", "Could not load flashcards: service unavailable",
		},
		{"first card", State{Phase: PhaseReady, Deck: deck}, "Card 1 of 3", ""},
		{
			"revealed last card",
			State{Phase: PhaseRevealed, Deck: deck, Position: 2, RevealedAt: time.Now()},
			"Card 3 of 3", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.progress, tt.state.Progress())
			assert.Equal(t, tt.status, tt.state.Status())
		})
	}
}
