package model

import "time"

// BuzzerPress records a single press within a question. The nickname is
// captured at press time so the record stays stable even if display state
// changes later.
type BuzzerPress struct {
	PlayerID   PlayerID
	PlayerName string
	Timestamp  time.Time
	IsFirst    bool
}

// Question represents one question round. It lives only while the session is
// in the active or scoring state and is discarded on skip or end-question.
type Question struct {
	Number        int
	StartedAt     time.Time
	Presses       []BuzzerPress
	FirstBuzzerID *PlayerID
}

// NewQuestion creates a question with the given number
func NewQuestion(number int, now time.Time) *Question {
	return &Question{
		Number:    number,
		StartedAt: now,
		Presses:   []BuzzerPress{},
	}
}

// AddPress appends a buzz record in arrival order and reports whether it was
// the first press of the question. Arrival order is authoritative: the first
// record appended is first regardless of wall-clock timestamps.
func (q *Question) AddPress(playerID PlayerID, playerName string, now time.Time) bool {
	isFirst := len(q.Presses) == 0

	q.Presses = append(q.Presses, BuzzerPress{
		PlayerID:   playerID,
		PlayerName: playerName,
		Timestamp:  now,
		IsFirst:    isFirst,
	})

	if isFirst {
		id := playerID
		q.FirstBuzzerID = &id
	}

	return isFirst
}

// HasPressed reports whether the player already buzzed for this question
func (q *Question) HasPressed(playerID PlayerID) bool {
	for _, press := range q.Presses {
		if press.PlayerID == playerID {
			return true
		}
	}
	return false
}
