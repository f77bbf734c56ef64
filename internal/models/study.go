package models

import "time"

// StudyLogEntry is one recorded outcome for a card. It is sent to the
// service once and not kept locally.
type StudyLogEntry struct {
	WordID       CardID  `json:"word_id"`
	Correct      bool    `json:"correct"`
	ResponseTime float64 `json:"response_time"`
}

// NewStudyLogEntry builds an entry from the reveal and judgment instants.
// A judgment that appears to precede the reveal is recorded as 0 seconds.
func NewStudyLogEntry(id CardID, correct bool, revealedAt, judgedAt time.Time) StudyLogEntry {
	elapsed := judgedAt.Sub(revealedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return StudyLogEntry{
		WordID:       id,
		Correct:      correct,
		ResponseTime: elapsed.Seconds(),
	}
}

// StudyStats counts judgments for the running process
type StudyStats struct {
	Correct   int
	Incorrect int
}

// Record adds one judgment
func (s *StudyStats) Record(correct bool) {
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
}

// Total returns the number of judgments recorded
func (s StudyStats) Total() int {
	return s.Correct + s.Incorrect
}
