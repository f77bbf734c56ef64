package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/estflash/internal/api"
	"codeberg.org/snonux/estflash/internal/models"
	"codeberg.org/snonux/estflash/internal/testutil"
)

// fakeService serves queued decks and records posted entries
type fakeService struct {
	mu       sync.Mutex
	decks    []models.Deck
	fetchErr error
	postErr  error
	fetches  []int
	logs     []models.StudyLogEntry
}

func (f *fakeService) FetchRecommendations(ctx context.Context, count int) (models.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, count)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.decks) == 0 {
		return models.Deck{}, nil
	}
	d := f.decks[0]
	f.decks = f.decks[1:]
	return d, nil
}

func (f *fakeService) PostStudySession(ctx context.Context, entry models.StudyLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return f.postErr
}

func (f *fakeService) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeService) entries() []models.StudyLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StudyLogEntry(nil), f.logs...)
}

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) Play(ctx context.Context, id models.CardID) error {
	args := m.Called(id)
	return args.Error(0)
}

// stepClock returns a clock that advances by step on every call
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(step)
		return t
	}
}

func TestControllerScenario(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{{
		{ID: "1", Estonian: "tere", Translation: "hello"},
		{ID: "2", Estonian: "aitäh", Translation: "thank you"},
	}}}
	player := &mockPlayer{}
	player.On("Play", models.CardID("1")).Return(nil).Once()

	c := NewController(svc, DefaultConfig(),
		WithPlayer(player),
		WithClock(stepClock(t0, 1200*time.Millisecond)))
	ctx := context.Background()

	c.Start(ctx)
	require.Equal(t, PhaseReady, c.Snapshot().Phase)

	c.Reveal(ctx)
	assert.True(t, c.Snapshot().Revealed())

	c.Judge(ctx, true)
	c.Wait()

	s := c.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, 1, s.Position)
	assert.Equal(t, models.StudyStats{Correct: 1}, s.Stats)

	entries := svc.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.CardID("1"), entries[0].WordID)
	assert.True(t, entries[0].Correct)
	assert.InDelta(t, 1.2, entries[0].ResponseTime, 1e-9)

	player.AssertExpectations(t)
}

func TestControllerAdvancesWhenPostFails(t *testing.T) {
	svc := &fakeService{
		decks:   []models.Deck{testutil.SampleDeck(2)},
		postErr: errors.New("service down"),
	}
	c := NewController(svc, DefaultConfig())
	ctx := context.Background()

	c.Start(ctx)
	c.Reveal(ctx)
	c.Judge(ctx, false)
	c.Wait()

	s := c.Snapshot()
	assert.Equal(t, 1, s.Position)
	assert.Equal(t, models.StudyStats{Incorrect: 1}, s.Stats)
	assert.Len(t, svc.entries(), 1)
}

func TestControllerPlaybackErrorDoesNotBlock(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(2)}}
	player := &mockPlayer{}
	player.On("Play", models.CardID("1")).Return(errors.New("no audio player found"))

	c := NewController(svc, DefaultConfig(), WithPlayer(player))
	ctx := context.Background()

	c.Start(ctx)
	c.Reveal(ctx)
	c.Wait()
	assert.Equal(t, PhaseRevealed, c.Snapshot().Phase)

	c.Judge(ctx, true)
	c.Wait()
	assert.Equal(t, 1, c.Snapshot().Position)
}

func TestControllerAutoPlayDisabled(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(2)}}
	player := &mockPlayer{}
	player.On("Play", models.CardID("1")).Return(nil).Once()

	cfg := DefaultConfig()
	cfg.AutoPlay = false
	c := NewController(svc, cfg, WithPlayer(player))
	ctx := context.Background()

	c.Start(ctx)
	c.Reveal(ctx)
	c.Wait()
	player.AssertNotCalled(t, "Play", models.CardID("1"))

	// an explicit listen still plays
	c.Listen(ctx)
	c.Wait()
	player.AssertNumberOfCalls(t, "Play", 1)
}

func TestControllerEmptyDeck(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc, DefaultConfig())
	ctx := context.Background()

	c.Start(ctx)
	s := c.Snapshot()
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.NoError(t, s.Err)
	assert.Equal(t, 1, svc.fetchCount())

	// reveal and judge do nothing and never fetch again
	c.Reveal(ctx)
	c.Judge(ctx, true)
	c.Start(ctx)
	c.Wait()
	assert.Equal(t, 2, svc.fetchCount(), "start from empty is a user action and fetches once")

	svc.mu.Lock()
	svc.decks = []models.Deck{testutil.SampleDeck(1)}
	svc.mu.Unlock()
	c.Refresh(ctx)
	assert.Equal(t, PhaseReady, c.Snapshot().Phase)
	assert.Empty(t, svc.entries())
}

func TestControllerFetchError(t *testing.T) {
	svc := &fakeService{fetchErr: errors.New("connection refused")}
	c := NewController(svc, DefaultConfig())

	c.Start(context.Background())
	s := c.Snapshot()
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.EqualError(t, s.Err, "connection refused")
}

func TestControllerLastCardFetchesOnce(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(2), testutil.SampleDeck(3)}}
	c := NewController(svc, &Config{DeckSize: 3})
	ctx := context.Background()

	c.Start(ctx)
	for i := 0; i < 2; i++ {
		c.Reveal(ctx)
		c.Judge(ctx, true)
	}
	c.Wait()

	svc.mu.Lock()
	assert.Equal(t, []int{3, 3}, svc.fetches)
	svc.mu.Unlock()

	s := c.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, 0, s.Position)
	assert.Equal(t, 3, s.Deck.Len())
	assert.Equal(t, 2, s.Stats.Correct)
}

func TestControllerOnChange(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(1)}}
	c := NewController(svc, DefaultConfig())

	var phases []Phase
	c.OnChange(func(s State) {
		phases = append(phases, s.Phase)
	})

	ctx := context.Background()
	c.Start(ctx)
	c.Reveal(ctx)
	c.Reveal(ctx)
	c.Wait()

	assert.Equal(t, []Phase{PhaseLoading, PhaseReady, PhaseRevealed}, phases)
}

func TestControllerDropsStaleSnapshots(t *testing.T) {
	c := NewController(&fakeService{}, DefaultConfig())

	var got []int
	listener := func(s State) { got = append(got, s.Position) }
	c.notify(listener, 2, State{Position: 2})
	c.notify(listener, 1, State{Position: 1})
	c.notify(listener, 3, State{Position: 3})

	assert.Equal(t, []int{2, 3}, got)
}

func TestControllerConcurrentChangesArriveInOrder(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(200)}}
	c := NewController(svc, DefaultConfig())
	ctx := context.Background()
	c.Start(ctx)

	// position and revealed only ever grow while the deck lasts
	progress := func(s State) int {
		p := s.Position * 2
		if s.Revealed() {
			p++
		}
		return p
	}

	var mu sync.Mutex
	var seen []int
	c.OnChange(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, progress(s))
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				c.Reveal(ctx)
				c.Judge(ctx, j%2 == 0)
			}
		}()
	}
	wg.Wait()
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1], "snapshot %d went backwards", i)
	}
	assert.Equal(t, progress(c.Snapshot()), seen[len(seen)-1])
}

func TestControllerSnapshotIsCopy(t *testing.T) {
	svc := &fakeService{decks: []models.Deck{testutil.SampleDeck(2)}}
	c := NewController(svc, DefaultConfig())
	c.Start(context.Background())

	s := c.Snapshot()
	s.Deck[0].Estonian = "changed"

	card, ok := c.Snapshot().Current()
	require.True(t, ok)
	assert.Equal(t, "tere", card.Estonian)
}

func TestControllerWithRemoteService(t *testing.T) {
	remote := testutil.NewFakeService(t)
	remote.QueueDeck(models.Deck{
		{ID: "1", Estonian: "tere", Translation: "hello"},
		{ID: "2", Estonian: "aitäh", Translation: "thank you"},
	})

	client, err := api.NewClient(&api.Config{BaseURL: remote.BaseURL()}, nil)
	require.NoError(t, err)

	c := NewController(client, DefaultConfig(), WithClock(stepClock(t0, 1200*time.Millisecond)))
	ctx := context.Background()

	c.Start(ctx)
	c.Reveal(ctx)
	c.Judge(ctx, true)
	c.Wait()

	assert.Equal(t, []int{10}, remote.RequestedCounts())
	logs := remote.StudyLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.StudyLogEntry{WordID: "1", Correct: true, ResponseTime: 1.2}, logs[0])
	assert.Equal(t, 1, c.Snapshot().Position)
}
