// Package processor wires the application together. It builds the service
// client, session controller, audio player and import form from the
// validated configuration and runs them in GUI, terminal or one-shot
// command mode.
package processor
