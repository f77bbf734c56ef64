package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal/logging"
	"codeberg.org/snonux/estflash/internal/models"
)

// DefaultDeckSize is the number of cards requested per fetch
const DefaultDeckSize = 10

// Service is the part of the remote service the session needs
type Service interface {
	FetchRecommendations(ctx context.Context, count int) (models.Deck, error)
	PostStudySession(ctx context.Context, entry models.StudyLogEntry) error
}

// AudioPlayer plays a card's pronunciation
type AudioPlayer interface {
	Play(ctx context.Context, id models.CardID) error
}

// Config holds controller settings
type Config struct {
	DeckSize    int
	AutoPlay    bool          // play audio when a card is revealed
	PostTimeout time.Duration // per study log post
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		DeckSize:    DefaultDeckSize,
		AutoPlay:    true,
		PostTimeout: 10 * time.Second,
	}
}

// Controller runs a study session against the remote service. All methods
// are safe for concurrent use.
type Controller struct {
	machine     Machine
	service     Service
	player      AudioPlayer
	autoPlay    bool
	postTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger

	mu       sync.Mutex
	state    State
	onChange func(State)
	seq      uint64 // bumped on every state change

	// notifyMu serializes listener calls; notified is the last seq delivered
	notifyMu sync.Mutex
	notified uint64

	// background posts and playbacks
	wg sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithPlayer sets the audio player. Without one, audio effects are dropped.
func WithPlayer(p AudioPlayer) Option {
	return func(c *Controller) {
		c.player = p
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.log = logging.OrNop(l)
	}
}

// NewController creates a controller in PhaseIdle. Call Start to load the
// first deck.
func NewController(service Service, config *Config, opts ...Option) *Controller {
	if config == nil {
		config = DefaultConfig()
	}
	postTimeout := config.PostTimeout
	if postTimeout <= 0 {
		postTimeout = DefaultConfig().PostTimeout
	}

	c := &Controller{
		machine:     Machine{DeckSize: config.DeckSize},
		service:     service,
		autoPlay:    config.AutoPlay,
		postTimeout: postTimeout,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("session")
	return c
}

// OnChange registers fn to be called with a snapshot after every state
// change. fn runs on the goroutine that caused the change, one call at a
// time, and never sees a snapshot older than one it was already given.
// fn may call Snapshot but must not call Start, Refresh, Reveal, Judge or
// Listen.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Start loads the first deck. It blocks until the fetch completes.
func (c *Controller) Start(ctx context.Context) {
	c.dispatch(ctx, Start{})
}

// Refresh fetches a new deck when the session is empty. It blocks until
// the fetch completes.
func (c *Controller) Refresh(ctx context.Context) {
	c.dispatch(ctx, Refresh{})
}

// Reveal shows the current card's translation and starts its timer
func (c *Controller) Reveal(ctx context.Context) {
	c.dispatch(ctx, Reveal{At: c.now()})
}

// Judge records whether the user knew the current card and moves on.
// On the last card of a deck it blocks until the next deck arrives.
func (c *Controller) Judge(ctx context.Context, correct bool) {
	c.dispatch(ctx, Judge{Correct: correct, At: c.now()})
}

// Listen replays the current card's pronunciation
func (c *Controller) Listen(ctx context.Context) {
	c.dispatch(ctx, Listen{})
}

// Wait blocks until background study log posts and playbacks finish
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) dispatch(ctx context.Context, ev Event) {
	c.mu.Lock()
	prev := c.state
	next, effects := c.machine.Transition(prev, ev)
	c.state = next
	listener := c.onChange
	snapshot := next.clone()
	notify := changed(prev, next)
	if notify {
		c.seq++
	}
	seq := c.seq
	c.mu.Unlock()

	if listener != nil && notify {
		c.notify(listener, seq, snapshot)
	}

	for _, eff := range effects {
		c.perform(ctx, eff)
	}
}

// notify delivers snapshot unless a newer one already went out
func (c *Controller) notify(listener func(State), seq uint64, snapshot State) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.notified {
		c.log.Debug("dropping stale snapshot", zap.Uint64("seq", seq))
		return
	}
	c.notified = seq
	listener(snapshot)
}

func (c *Controller) perform(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case FetchDeck:
		c.log.Debug("fetching deck", zap.Int("count", eff.Count))
		deck, err := c.service.FetchRecommendations(ctx, eff.Count)
		if err != nil {
			c.log.Warn("could not fetch recommendations", zap.Error(err))
			c.dispatch(ctx, LoadFailed{Err: err})
			return
		}
		c.log.Info("deck loaded", zap.Int("cards", deck.Len()))
		c.dispatch(ctx, Loaded{Deck: deck})

	case PlayAudio:
		if c.player == nil || (!eff.Manual && !c.autoPlay) {
			return
		}
		bg := context.WithoutCancel(ctx)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.player.Play(bg, eff.CardID); err != nil {
				c.log.Debug("playback failed", zap.Stringer("card", eff.CardID), zap.Error(err))
			}
		}()

	case PostLog:
		bg := context.WithoutCancel(ctx)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			postCtx, cancel := context.WithTimeout(bg, c.postTimeout)
			defer cancel()
			if err := c.service.PostStudySession(postCtx, eff.Entry); err != nil {
				c.log.Warn("could not log study session",
					zap.Stringer("card", eff.Entry.WordID),
					zap.Error(err))
			}
		}()
	}
}

func changed(a, b State) bool {
	return a.Phase != b.Phase ||
		a.Position != b.Position ||
		!a.RevealedAt.Equal(b.RevealedAt) ||
		a.Stats != b.Stats ||
		a.Deck.Len() != b.Deck.Len() ||
		(a.Err == nil) != (b.Err == nil)
}
