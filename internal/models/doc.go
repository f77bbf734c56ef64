// Package models holds the flashcard data exchanged with the remote
// service: cards, decks, study log entries and the per-process study
// statistics.
package models
