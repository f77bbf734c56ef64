// Package session implements the flashcard study session.
//
// Transition is a pure function over State and Event that returns the
// next state plus the side effects to perform (fetch a deck, play audio,
// post a study log entry). Controller owns a State, feeds it events and
// performs the effects against the remote service and the audio player.
package session
