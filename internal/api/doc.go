// Package api is the HTTP client for the flashcard service. It wraps the
// four endpoints the client depends on (word import, recommendations,
// study session logging and per-card audio) behind a circuit breaker.
package api
