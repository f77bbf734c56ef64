// Package console runs a study session in the terminal. It reads one
// command per line and prints the card, progress and statistics after
// every command.
package console
