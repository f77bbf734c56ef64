package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal/api"
	"codeberg.org/snonux/estflash/internal/audio"
	"codeberg.org/snonux/estflash/internal/cli"
	"codeberg.org/snonux/estflash/internal/console"
	"codeberg.org/snonux/estflash/internal/gui"
	"codeberg.org/snonux/estflash/internal/importer"
	"codeberg.org/snonux/estflash/internal/logging"
	"codeberg.org/snonux/estflash/internal/models"
	"codeberg.org/snonux/estflash/internal/session"
)

// Processor owns the components shared by all modes
type Processor struct {
	config *cli.Config
	log    *zap.Logger
	logs   *gui.LogWriter
	client *api.Client
}

// NewProcessor builds the logger and service client from config. Log
// lines also go to the GUI log tab.
func NewProcessor(config *cli.Config) (*Processor, error) {
	logs := gui.NewLogWriter(1000)
	log, err := logging.New(config.Log.Level, logs)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(&api.Config{
		BaseURL:         config.API.BaseURL,
		Timeout:         config.API.Timeout,
		BreakerFailures: config.API.BreakerFailures,
		BreakerCooldown: config.API.BreakerCooldown,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}

	return &Processor{
		config: config,
		log:    log,
		logs:   logs,
		client: client,
	}, nil
}

// Close flushes the logger
func (p *Processor) Close() {
	p.log.Sync()
}

// RunGUIMode launches the GUI application. It returns once the window is
// closed; cancelling ctx closes it.
func (p *Processor) RunGUIMode(ctx context.Context) error {
	player := p.newPlayer()
	defer player.Close()

	ctrl := p.newSession(player)

	app := gui.New(ctx, &gui.Config{
		Session: ctrl,
		Import:  importer.NewForm(p.client, p.log),
		Player:  player,
		Logs:    p.logs,
		Log:     p.log,
	})
	app.Run()

	// Let pending study logs reach the service
	ctrl.Wait()
	return ctx.Err()
}

// RunStudy runs a terminal study session reading commands from in
func (p *Processor) RunStudy(ctx context.Context, in io.Reader, out io.Writer) error {
	player := p.newPlayer()
	defer player.Close()

	ctrl := p.newSession(player)
	defer ctrl.Wait()

	return console.New(ctrl, in, out).Run(ctx)
}

// ImportFile uploads the word list at path and returns the resulting
// message. The error is non-nil when the import did not succeed.
func (p *Processor) ImportFile(ctx context.Context, path string) (string, error) {
	form := importer.NewForm(p.client, p.log)
	form.Select(path)
	return form.Submit(ctx)
}

// AudioURL returns the audio resource locator of a card
func (p *Processor) AudioURL(id string) (string, error) {
	cardID := models.CardID(strings.TrimSpace(id))
	if cardID.IsZero() {
		return "", errors.New("card id must not be empty")
	}
	return p.client.AudioURL(cardID), nil
}

func (p *Processor) newSession(player session.AudioPlayer) *session.Controller {
	cfg := session.DefaultConfig()
	cfg.DeckSize = p.config.Study.DeckSize
	cfg.AutoPlay = p.config.Audio.AutoPlay

	return session.NewController(p.client, cfg,
		session.WithPlayer(player),
		session.WithLogger(p.log))
}

// newPlayer uses the configured player command, falling back to the
// platform default
func (p *Processor) newPlayer() *audio.Player {
	var backend audio.Backend = audio.NewExecBackend("")
	if cmd := p.config.Audio.Player; cmd != "" {
		backend = audio.NewBackendWithFallback(audio.NewExecBackend(cmd), backend)
	}
	if err := backend.IsAvailable(); err != nil {
		p.log.Warn("audio playback unavailable", zap.Error(err))
	} else {
		p.log.Debug("audio backend", zap.String("backend", backend.Name()))
	}

	return audio.NewPlayer(p.client, backend, nil, p.log)
}
