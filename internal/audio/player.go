package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal"
	"codeberg.org/snonux/estflash/internal/logging"
	"codeberg.org/snonux/estflash/internal/models"
)

// Source locates and downloads card audio
type Source interface {
	AudioURL(id models.CardID) string
	FetchAudio(ctx context.Context, url string, w io.Writer) error
}

// Config holds player configuration
type Config struct {
	// CacheDir keeps downloaded files. Empty means a temporary directory
	// that is removed by Close.
	CacheDir string
}

// Player plays card pronunciations through a single playback handle
type Player struct {
	source  Source
	backend Backend
	log     *zap.Logger

	mu        sync.Mutex
	cacheDir  string
	ownsCache bool
	current   string
	playback  Playback
	gen       uint64
	closed    bool
}

// NewPlayer creates a player. Nothing is downloaded until Play.
func NewPlayer(source Source, backend Backend, config *Config, log *zap.Logger) *Player {
	if config == nil {
		config = &Config{}
	}
	return &Player{
		source:   source,
		backend:  backend,
		cacheDir: config.CacheDir,
		log:      logging.OrNop(log).Named("audio"),
	}
}

// Play assigns the card's audio to the player and starts it, stopping
// whatever played before. An empty id or a closed player is a no-op.
// A Play that is superseded by a later one while downloading returns nil
// without playing. Errors are logged and returned for diagnostics only.
func (p *Player) Play(ctx context.Context, id models.CardID) error {
	if id.IsZero() || p.source == nil {
		return nil
	}

	url := p.source.AudioURL(id)
	log := p.log.With(zap.Stringer("card", id))

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.gen++
	gen := p.gen
	p.current = url
	p.stopLocked()
	dir, err := p.cacheDirLocked()
	p.mu.Unlock()
	if err != nil {
		log.Warn("audio cache unavailable", zap.Error(err))
		return err
	}

	file, err := p.load(ctx, dir, url)
	if err != nil {
		log.Warn("could not load audio", zap.String("url", url), zap.Error(err))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		log.Debug("playback superseded")
		return nil
	}

	pb, err := p.backend.Start(ctx, file)
	if err != nil {
		log.Warn("could not start playback", zap.String("backend", p.backend.Name()), zap.Error(err))
		return err
	}
	p.playback = pb
	go p.release(pb)

	log.Debug("playing", zap.String("file", filepath.Base(file)))
	return nil
}

// Stop stops the current playback but keeps the assigned source
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Close stops playback, detaches the source and removes a temporary
// cache directory. Later Play calls are no-ops.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.gen++
	p.stopLocked()
	p.current = ""

	if p.ownsCache && p.cacheDir != "" {
		if err := os.RemoveAll(p.cacheDir); err != nil {
			return fmt.Errorf("failed to remove audio cache: %w", err)
		}
	}
	return nil
}

// Current returns the URL currently assigned to the player
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Playing reports whether a playback is running
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playback != nil
}

func (p *Player) stopLocked() {
	if p.playback == nil {
		return
	}
	if err := p.playback.Stop(); err != nil {
		p.log.Debug("stopping playback", zap.Error(err))
	}
	p.playback = nil
}

// release clears the handle once pb ends on its own
func (p *Player) release(pb Playback) {
	<-pb.Done()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playback == pb {
		p.playback = nil
	}
}

func (p *Player) cacheDirLocked() (string, error) {
	if p.cacheDir != "" {
		if err := os.MkdirAll(p.cacheDir, 0755); err != nil {
			return "", err
		}
		return p.cacheDir, nil
	}

	dir, err := os.MkdirTemp("", "estflash-audio-")
	if err != nil {
		return "", err
	}
	p.cacheDir = dir
	p.ownsCache = true
	return dir, nil
}

// load returns a local file holding url, downloading it when not cached
func (p *Player) load(ctx context.Context, dir, url string) (string, error) {
	path := filepath.Join(dir, internal.CacheFileName(url))
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return path, nil
	}

	tmp, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := p.source.FetchAudio(ctx, url, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	if err := validateFile(tmpName); err != nil {
		return "", err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to store audio file: %w", err)
	}
	return path, nil
}

func validateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	return ValidateAudio(header[:n])
}
