package audio

import (
	"context"
	"fmt"
)

// Backend starts playback of a local audio file
type Backend interface {
	// Start begins playing file and returns without waiting for it to end
	Start(ctx context.Context, file string) (Playback, error)

	// Name returns the backend name
	Name() string

	// IsAvailable checks if the backend can play anything on this system
	IsAvailable() error
}

// Playback is one running playback
type Playback interface {
	// Stop ends playback. Stopping a finished playback is not an error.
	Stop() error

	// Done is closed when playback ends for any reason
	Done() <-chan struct{}
}

// BackendWithFallback wraps a primary backend with a fallback option
type BackendWithFallback struct {
	primary  Backend
	fallback Backend
}

// NewBackendWithFallback creates a backend that falls back to secondary if primary fails
func NewBackendWithFallback(primary, fallback Backend) Backend {
	return &BackendWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Start tries the primary backend first, falls back to secondary on error
func (b *BackendWithFallback) Start(ctx context.Context, file string) (Playback, error) {
	pb, err := b.primary.Start(ctx, file)
	if err == nil {
		return pb, nil
	}

	pb, fallbackErr := b.fallback.Start(ctx, file)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%s failed: %v; %s failed: %w",
			b.primary.Name(), err, b.fallback.Name(), fallbackErr)
	}
	return pb, nil
}

// Name returns the backend name
func (b *BackendWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", b.primary.Name(), b.fallback.Name())
}

// IsAvailable checks if at least one backend is available
func (b *BackendWithFallback) IsAvailable() error {
	primaryErr := b.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := b.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both backends unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
