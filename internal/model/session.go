package model

import (
	"strings"
	"time"
)

// JoinCode is the short public identifier players use to join a session
type JoinCode string

// GameState represents the current phase of a session's question loop
type GameState string

const (
	StateWaiting GameState = "waiting" // Between questions, buzzers idle
	StateActive  GameState = "active"  // Question open, buzzers live
	StateScoring GameState = "scoring" // Buzzers closed, GM assigning points
	StateEnded   GameState = "ended"   // Game over, leaderboard computed
)

// Session is a single game instance identified by its join code. A session
// exclusively owns its players and its current question; it holds no
// reference to the registry or the transport.
type Session struct {
	JoinCode        JoinCode
	Players         map[PlayerID]*Player
	PlayerOrder     []PlayerID // insertion order, for stable display
	State           GameState
	CurrentQuestion *Question // non-nil only while State is active or scoring
	// LastQuestionNumber is the highest question number ever issued. It
	// persists across skips so numbering stays monotonic even after
	// CurrentQuestion is cleared.
	LastQuestionNumber int
	GMPasswordHash     string
	CreatedAt          time.Time
	LastActivity       time.Time
	IsActive           bool
	Leaderboard        *LeaderboardData // populated once State reaches ended
}

// NewSession creates a session in the waiting state with an empty roster
func NewSession(joinCode JoinCode, gmPasswordHash string, now time.Time) *Session {
	return &Session{
		JoinCode:       joinCode,
		Players:        make(map[PlayerID]*Player),
		State:          StateWaiting,
		GMPasswordHash: gmPasswordHash,
		CreatedAt:      now,
		LastActivity:   now,
		IsActive:       true,
	}
}

// AddPlayer inserts a player and records their position in the roster order
func (s *Session) AddPlayer(p *Player) {
	s.Players[p.ID] = p
	s.PlayerOrder = append(s.PlayerOrder, p.ID)
}

// HasSpace reports whether the session can accept another player
func (s *Session) HasSpace(maxPlayers int) bool {
	return len(s.Players) < maxPlayers
}

// IsNicknameTaken reports whether a nickname is already in use,
// compared case-insensitively
func (s *Session) IsNicknameTaken(nickname string) bool {
	for _, p := range s.Players {
		if strings.EqualFold(p.Nickname, nickname) {
			return true
		}
	}
	return false
}

// FindPlayerByNickname returns the player with the given nickname
// (case-insensitive), or nil if none
func (s *Session) FindPlayerByNickname(nickname string) *Player {
	for _, id := range s.PlayerOrder {
		if p := s.Players[id]; p != nil && strings.EqualFold(p.Nickname, nickname) {
			return p
		}
	}
	return nil
}

// PlayersInOrder returns the roster in insertion order
func (s *Session) PlayersInOrder() []*Player {
	players := make([]*Player, 0, len(s.PlayerOrder))
	for _, id := range s.PlayerOrder {
		if p, ok := s.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// ConnectedCount returns the number of currently connected players
func (s *Session) ConnectedCount() int {
	count := 0
	for _, p := range s.Players {
		if p.IsConnected {
			count++
		}
	}
	return count
}

// CurrentQuestionNumber returns the active question's number, or 0 if none
func (s *Session) CurrentQuestionNumber() int {
	if s.CurrentQuestion == nil {
		return 0
	}
	return s.CurrentQuestion.Number
}

// Touch updates the last-activity timestamp
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}
