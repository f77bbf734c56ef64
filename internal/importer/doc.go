// Package importer implements the word list import form: one selected
// file, one upload at a time, and a single status message describing the
// outcome.
package importer
