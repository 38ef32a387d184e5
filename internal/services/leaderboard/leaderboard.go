// Package leaderboard computes final standings with Standard Competition
// Ranking ("1224"): tied players share a rank and the next distinct score
// skips past them.
package leaderboard

import (
	"sort"
	"time"

	"github.com/quizbuzz/quizbuzz/internal/model"
)

// Calculate ranks the given players by score. It never mutates its input and
// is deterministic for identical input; the timestamp on the returned
// envelope is supplied by the caller.
func Calculate(players []*model.Player, sessionID model.JoinCode, now time.Time) *model.LeaderboardData {
	data := &model.LeaderboardData{
		Entries:      []model.LeaderboardEntry{},
		TotalPlayers: len(players),
		ComputedAt:   now,
		SessionID:    sessionID,
	}
	if len(players) == 0 {
		return data
	}

	// Score descending, then nickname ascending for a deterministic order
	sorted := make([]*model.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Nickname < sorted[j].Nickname
	})

	currentRank := 1
	for i, p := range sorted {
		if i > 0 && p.Score != sorted[i-1].Score {
			currentRank = i + 1
		}

		isTied := (i > 0 && p.Score == sorted[i-1].Score) ||
			(i < len(sorted)-1 && p.Score == sorted[i+1].Score)

		data.Entries = append(data.Entries, model.LeaderboardEntry{
			PlayerID: p.ID,
			Nickname: p.Nickname,
			Score:    p.Score,
			Rank:     currentRank,
			IsTied:   isTied,
		})
	}

	return data
}
