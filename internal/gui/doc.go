// Package gui implements the graphical study client with fyne. The study
// tab renders session snapshots pushed by the session controller, the
// import tab drives the import form, and an optional log tab shows the
// application log.
package gui
