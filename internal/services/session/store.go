// Package session owns the registry of live sessions. The store is the only
// component that creates or deletes sessions, and its mutex is the
// serialization point for every session mutation: all read-modify-write
// cycles happen inside Update, so concurrent buzzer presses are appended in
// a definite order.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/quizbuzz/quizbuzz/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz/internal/joincode"
	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/services/credentials"
)

// Config holds store behavior settings
type Config struct {
	// MaxCodeAttempts bounds the join-code collision retry loop
	MaxCodeAttempts int
	// SweepInterval is how often the background sweep runs
	SweepInterval time.Duration
	// InactiveAfter is the inactivity window after which a session is swept
	InactiveAfter time.Duration
}

// DefaultConfig returns the default store configuration
func DefaultConfig() Config {
	return Config{
		MaxCodeAttempts: 10,
		SweepInterval:   10 * time.Minute,
		InactiveAfter:   2 * time.Hour,
	}
}

// SessionMetadata is a lightweight view of a session for GM session lists.
// It carries no secrets.
type SessionMetadata struct {
	JoinCode             model.JoinCode  `json:"joinCode"`
	PlayerCount          int             `json:"playerCount"`
	ConnectedPlayerCount int             `json:"connectedPlayerCount"`
	CreatedAt            time.Time       `json:"createdAt"`
	LastActivity         time.Time       `json:"lastActivity"`
	GameState            model.GameState `json:"gameState"`
	QuestionNumber       int             `json:"questionNumber"`
}

// Store is the authoritative registry of live sessions, keyed by join code.
// It is volatile by design: nothing survives a process restart.
type Store struct {
	mu       sync.Mutex
	sessions map[model.JoinCode]*model.Session

	generator *joincode.Generator
	hasher    *credentials.Hasher
	clock     clock.Clock
	logger    *slog.Logger
	config    Config

	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
}

// New creates an empty Store. The background sweeper is not started until
// StartSweeper is called.
func New(
	generator *joincode.Generator,
	hasher *credentials.Hasher,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Store {
	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = DefaultConfig().MaxCodeAttempts
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	if cfg.InactiveAfter <= 0 {
		cfg.InactiveAfter = DefaultConfig().InactiveAfter
	}
	return &Store{
		sessions:  make(map[model.JoinCode]*model.Session),
		generator: generator,
		hasher:    hasher,
		clock:     clk,
		logger:    logger.With(slog.String("component", "session_store")),
		config:    cfg,
	}
}

// Create inserts a new session in the waiting state under a freshly
// generated join code. It retries on code collision up to the configured
// bound and returns model.ErrCodeGenerationFailed if exhausted.
func (s *Store) Create(gmPasswordHash string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code model.JoinCode
	found := false
	for attempt := 0; attempt < s.config.MaxCodeAttempts; attempt++ {
		candidate := model.JoinCode(s.generator.Generate())
		if _, exists := s.sessions[candidate]; !exists {
			code = candidate
			found = true
			break
		}
	}
	if !found {
		s.logger.Error("join code space exhausted",
			slog.Int("attempts", s.config.MaxCodeAttempts),
			slog.Int("session_count", len(s.sessions)))
		return nil, model.ErrCodeGenerationFailed
	}

	sess := model.NewSession(code, gmPasswordHash, s.clock.Now())
	s.sessions[code] = sess

	s.logger.Info("session created",
		slog.String("join_code", string(code)),
		slog.Int("session_count", len(s.sessions)))

	return sess, nil
}

// Has reports whether a session exists for the join code
func (s *Store) Has(code model.JoinCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[code]
	return ok
}

// Delete removes a session. It is idempotent and reports whether the
// session existed.
func (s *Store) Delete(code model.JoinCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[code]; !ok {
		return false
	}
	delete(s.sessions, code)
	s.logger.Info("session deleted", slog.String("join_code", string(code)))
	return true
}

// Touch sets the session's last-activity timestamp to now. Missing sessions
// are ignored.
func (s *Store) Touch(code model.JoinCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[code]; ok {
		sess.Touch(s.clock.Now())
	}
}

// Update runs fn on the session under the store mutex. Every mutating
// operation in the system goes through here, which is what serializes
// concurrent requests against the same session. Returns
// model.ErrSessionNotFound if the join code is unknown.
func (s *Store) Update(code model.JoinCode, fn func(*model.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[code]
	if !ok {
		return model.ErrSessionNotFound
	}
	return fn(sess)
}

// View is Update for reads; it exists to keep call sites honest about intent
func (s *Store) View(code model.JoinCode, fn func(*model.Session) error) error {
	return s.Update(code, fn)
}

// ForEach runs fn on every session under the store mutex, stopping early if
// fn returns false. Iteration order is unspecified.
func (s *Store) ForEach(fn func(*model.Session) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if !fn(sess) {
			return
		}
	}
}

// Count returns the number of live sessions
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SessionsByPassword returns metadata for every session whose GM password
// hash matches the given plaintext, sorted by last activity descending.
// Each session carries an independent hash, so this is a linear scan with a
// bcrypt verify per session; the hash snapshot is taken under the lock and
// the expensive verifies run outside it.
func (s *Store) SessionsByPassword(password string) []SessionMetadata {
	type candidate struct {
		hash string
		meta SessionMetadata
	}

	s.mu.Lock()
	candidates := make([]candidate, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if !sess.IsActive {
			continue
		}
		candidates = append(candidates, candidate{
			hash: sess.GMPasswordHash,
			meta: metadataFor(sess),
		})
	}
	s.mu.Unlock()

	matched := make([]SessionMetadata, 0, len(candidates))
	for _, c := range candidates {
		if s.hasher.Verify(password, c.hash) {
			matched = append(matched, c.meta)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LastActivity.After(matched[j].LastActivity)
	})

	return matched
}

// Metadata returns the metadata view of a single session
func (s *Store) Metadata(code model.JoinCode) (SessionMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[code]
	if !ok {
		return SessionMetadata{}, model.ErrSessionNotFound
	}
	return metadataFor(sess), nil
}

func metadataFor(sess *model.Session) SessionMetadata {
	return SessionMetadata{
		JoinCode:             sess.JoinCode,
		PlayerCount:          len(sess.Players),
		ConnectedPlayerCount: sess.ConnectedCount(),
		CreatedAt:            sess.CreatedAt,
		LastActivity:         sess.LastActivity,
		GameState:            sess.State,
		QuestionNumber:       sess.CurrentQuestionNumber(),
	}
}

// StartSweeper launches the periodic cleanup of inactive and ended
// sessions. Call Close to stop it.
func (s *Store) StartSweeper() {
	ctx, cancel := context.WithCancel(context.Background())
	s.sweepCancel = cancel
	s.sweepDone = make(chan struct{})

	go func() {
		defer close(s.sweepDone)
		ticker := time.NewTicker(s.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepNow()
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Info("session sweeper started",
		slog.Duration("interval", s.config.SweepInterval),
		slog.Duration("inactive_after", s.config.InactiveAfter))
}

// SweepNow removes every session that is ended (IsActive false) or whose
// inactivity exceeds the configured threshold. Clients are not notified;
// they discover removal through failed subsequent operations.
func (s *Store) SweepNow() int {
	now := s.clock.Now()

	s.mu.Lock()
	var expired []model.JoinCode
	for code, sess := range s.sessions {
		if !sess.IsActive || now.Sub(sess.LastActivity) > s.config.InactiveAfter {
			expired = append(expired, code)
		}
	}
	for _, code := range expired {
		delete(s.sessions, code)
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	if len(expired) > 0 {
		s.logger.Info("swept inactive sessions",
			slog.Int("removed", len(expired)),
			slog.Int("remaining", remaining))
	}
	return len(expired)
}

// Close stops the background sweeper if it is running
func (s *Store) Close() {
	if s.sweepCancel != nil {
		s.sweepCancel()
		<-s.sweepDone
		s.sweepCancel = nil
	}
}
