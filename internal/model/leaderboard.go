package model

import "time"

// LeaderboardEntry is one player's final ranking
type LeaderboardEntry struct {
	PlayerID PlayerID `json:"playerId"`
	Nickname string   `json:"nickname"`
	Score    int      `json:"score"`
	Rank     int      `json:"rank"`   // 1-based, shared across ties
	IsTied   bool     `json:"isTied"` // true if this rank is shared
}

// LeaderboardData is the complete final standings for a session
type LeaderboardData struct {
	Entries      []LeaderboardEntry `json:"entries"` // sorted by rank ascending
	TotalPlayers int                `json:"totalPlayers"`
	ComputedAt   time.Time          `json:"timestamp"`
	SessionID    JoinCode           `json:"sessionId"`
}
