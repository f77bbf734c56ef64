package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal/logging"
	"codeberg.org/snonux/estflash/internal/models"
)

// maxAudioBytes caps a single audio download
const maxAudioBytes = 20 << 20

// Config holds the client settings
type Config struct {
	BaseURL         string        // e.g. http://localhost:5000/api
	Timeout         time.Duration // per request
	BreakerFailures uint32        // consecutive failures before failing fast
	BreakerCooldown time.Duration // how long to fail fast
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:5000/api",
		Timeout:         15 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Client talks to the flashcard service
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient creates a client for the service at config.BaseURL
func NewClient(config *Config, log *zap.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = defaults.BreakerFailures
	}
	if config.BreakerCooldown <= 0 {
		config.BreakerCooldown = defaults.BreakerCooldown
	}

	base, err := url.Parse(strings.TrimSpace(config.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid service base URL %q", config.BaseURL)
	}

	log = logging.OrNop(log).Named("api")
	failures := config.BreakerFailures

	c := &Client{
		baseURL:    strings.TrimRight(base.String(), "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "flashcard-service",
		Timeout: config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c, nil
}

// BaseURL returns the normalised service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImportWords uploads a word list. It returns the server's status message,
// or an error whose text is the server's error message when one was sent.
func (c *Client) ImportWords(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/import-words", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log := c.log.With(zap.String("file", filepath.Base(filename)))
	log.Debug("uploading word list", zap.Int("bytes", body.Len()))

	resp, err := c.do(req)
	if err != nil {
		log.Error("word import failed", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to decode import response: %w", err)
	}
	if out.Message == "" {
		out.Message = "Words imported"
	}

	log.Info("word list imported", zap.String("message", out.Message))
	return out.Message, nil
}

// FetchRecommendations returns at most count cards chosen by the service
func (c *Client) FetchRecommendations(ctx context.Context, count int) (models.Deck, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid card count %d", count)
	}

	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/recommendations?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.do(req)
	if err != nil {
		c.log.Error("failed to fetch recommendations", zap.Int("count", count), zap.Error(err))
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	defer resp.Body.Close()

	var deck models.Deck
	if err := json.NewDecoder(resp.Body).Decode(&deck); err != nil && !errors.Is(err, io.EOF) {
		c.log.Error("failed to decode recommendations", zap.Error(err))
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(deck) > count {
		deck = deck[:count]
	}

	c.log.Debug("recommendations received",
		zap.Int("cards", len(deck)),
		zap.Duration("took", time.Since(start)))
	return deck, nil
}

// PostStudySession records one judgment with the service
func (c *Client) PostStudySession(ctx context.Context, entry models.StudyLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode study session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/study-sessions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("post study session for card %s: %w", entry.WordID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	c.log.Debug("study session logged",
		zap.Stringer("card", entry.WordID),
		zap.Bool("correct", entry.Correct),
		zap.Float64("response_time", entry.ResponseTime))
	return nil
}

// AudioURL returns the pronunciation resource for a card. It does not
// touch the network.
func (c *Client) AudioURL(id models.CardID) string {
	return c.baseURL + "/audio/" + url.PathEscape(id.String())
}

// FetchAudio streams the resource at audioURL into w
func (c *Client) FetchAudio(ctx context.Context, audioURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("fetch audio %s: %w", audioURL, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return fmt.Errorf("read audio %s: %w", audioURL, err)
	}
	if n > maxAudioBytes {
		return fmt.Errorf("audio %s exceeds %d bytes", audioURL, maxAudioBytes)
	}

	c.log.Debug("audio downloaded", zap.String("url", audioURL), zap.Int64("bytes", n))
	return nil
}

// do sends req through the circuit breaker. Non-2xx replies are turned
// into *APIError and their bodies closed.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			defer resp.Body.Close()
			return nil, newAPIError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return nil, err
	}
	return out.(*http.Response), nil
}
