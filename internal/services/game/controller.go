// Package game implements the session state machine: GM-driven transitions
// through the question loop, player membership, and buzzer handling.
package game

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/quizbuzz/quizbuzz/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/services/credentials"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
)

// Config holds the rule bounds for the state machine
type Config struct {
	// MaxPlayers caps the roster size per session
	MaxPlayers int
	// MaxPointsDelta bounds a single score assignment (applied as ±)
	MaxPointsDelta int
	// LegacyGMPassword, when non-empty, enables the single shared GM
	// password mode: session creation requires this exact password. The
	// per-session hash is stored either way so session discovery works.
	LegacyGMPassword string
}

// DefaultConfig returns the default rule bounds
func DefaultConfig() Config {
	return Config{
		MaxPlayers:     5,
		MaxPointsDelta: 1000,
	}
}

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]{1,20}$`)

const (
	minPasswordLength = 4
	maxPasswordLength = 20
)

// Controller validates and applies all session mutations. Guards run
// top-to-bottom (existence, active, state, per-operation, payload) and the
// first violation wins; no mutation happens before validation passes.
type Controller struct {
	store  *session.Store
	hasher *credentials.Hasher
	clock  clock.Clock
	logger *slog.Logger
	config Config
}

// NewController creates a game Controller
func NewController(
	store *session.Store,
	hasher *credentials.Hasher,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	if cfg.MaxPointsDelta <= 0 {
		cfg.MaxPointsDelta = DefaultConfig().MaxPointsDelta
	}
	return &Controller{
		store:  store,
		hasher: hasher,
		clock:  clk,
		logger: logger.With(slog.String("component", "game")),
		config: cfg,
	}
}

// ValidNickname reports whether nickname (already trimmed) is acceptable
func ValidNickname(nickname string) bool {
	return nicknamePattern.MatchString(nickname)
}

// ValidPassword reports whether password length is acceptable
func ValidPassword(password string) bool {
	return len(password) >= minPasswordLength && len(password) <= maxPasswordLength
}

// SanitizeNickname trims surrounding whitespace before validation
func SanitizeNickname(nickname string) string {
	return strings.TrimSpace(nickname)
}

// requireActive is the shared existence + active guard prefix
func requireActive(sess *model.Session) error {
	if !sess.IsActive {
		return model.ErrSessionInactive
	}
	return nil
}

// PlayerView is the transport-safe projection of a player
type PlayerView struct {
	PlayerID          model.PlayerID    `json:"playerId"`
	Nickname          string            `json:"nickname"`
	Score             int               `json:"score"`
	BuzzerSound       model.BuzzerSound `json:"buzzerSound"`
	IsConnected       bool              `json:"isConnected"`
	LastBuzzTimestamp *time.Time        `json:"lastBuzzTimestamp"`
}

// SessionView is the transport-safe projection of a session; it excludes the
// GM password hash and player password hashes.
type SessionView struct {
	JoinCode              model.JoinCode         `json:"joinCode"`
	Players               []PlayerView           `json:"players"`
	GameState             model.GameState        `json:"gameState"`
	CurrentQuestionNumber int                    `json:"currentQuestionNumber"`
	CreatedAt             time.Time              `json:"createdAt"`
	IsActive              bool                   `json:"isActive"`
	Leaderboard           *model.LeaderboardData `json:"leaderboard,omitempty"`
}

// NewPlayerView projects a player for the wire
func NewPlayerView(p *model.Player) PlayerView {
	return PlayerView{
		PlayerID:          p.ID,
		Nickname:          p.Nickname,
		Score:             p.Score,
		BuzzerSound:       p.BuzzerSound,
		IsConnected:       p.IsConnected,
		LastBuzzTimestamp: p.LastBuzzAt,
	}
}

// NewSessionView projects a session for the wire, players in roster order
func NewSessionView(sess *model.Session) SessionView {
	players := make([]PlayerView, 0, len(sess.Players))
	for _, p := range sess.PlayersInOrder() {
		players = append(players, NewPlayerView(p))
	}
	return SessionView{
		JoinCode:              sess.JoinCode,
		Players:               players,
		GameState:             sess.State,
		CurrentQuestionNumber: sess.CurrentQuestionNumber(),
		CreatedAt:             sess.CreatedAt,
		IsActive:              sess.IsActive,
		Leaderboard:           sess.Leaderboard,
	}
}

// Snapshot returns the current view of a session
func (c *Controller) Snapshot(ctx context.Context, joinCode model.JoinCode) (*SessionView, error) {
	var view SessionView
	err := c.store.View(joinCode, func(sess *model.Session) error {
		view = NewSessionView(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
