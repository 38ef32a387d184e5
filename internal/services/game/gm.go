package game

import (
	"context"
	"log/slog"

	"github.com/quizbuzz/quizbuzz/internal/joincode"
	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/services/leaderboard"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
)

// CreateSessionResult is returned from CreateSession
type CreateSessionResult struct {
	JoinCode model.JoinCode
	Session  SessionView
}

// CreateSession validates the GM password, hashes it, and registers a new
// session in the waiting state. Hashing is the slow step here; it happens
// before the registry is touched.
func (c *Controller) CreateSession(ctx context.Context, gmPassword string) (*CreateSessionResult, error) {
	if gmPassword == "" {
		return nil, model.ErrMissingRequiredField
	}
	if c.config.LegacyGMPassword != "" && gmPassword != c.config.LegacyGMPassword {
		c.logger.Warn("rejected session creation with wrong shared GM password")
		return nil, model.ErrInvalidGMPassword
	}
	if !ValidPassword(gmPassword) {
		return nil, model.ErrInvalidGMPassword
	}

	hash, err := c.hasher.Hash(gmPassword)
	if err != nil {
		c.logger.Error("gm password hash failed", slog.String("error", err.Error()))
		return nil, err
	}

	sess, err := c.store.Create(hash)
	if err != nil {
		return nil, err
	}

	return &CreateSessionResult{
		JoinCode: sess.JoinCode,
		Session:  NewSessionView(sess),
	}, nil
}

// EndSession marks the session inactive. The session stops accepting every
// mutating operation, this one included; the sweeper removes it on its next
// pass.
func (c *Controller) EndSession(ctx context.Context, code model.JoinCode) error {
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		sess.IsActive = false
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("session ended", slog.String("join_code", string(code)))
	return nil
}

// QuestionResult carries the question number affected by a transition
type QuestionResult struct {
	Number int
}

// StartQuestion transitions waiting → active, allocating the next question
// number and clearing every player's buzz timestamp. Question numbers are
// never reused, even across skips.
func (c *Controller) StartQuestion(ctx context.Context, code model.JoinCode) (*QuestionResult, error) {
	var number int
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}
		if sess.State != model.StateWaiting {
			return model.ErrInvalidStateTransition
		}

		number = sess.LastQuestionNumber + 1
		sess.LastQuestionNumber = number
		sess.CurrentQuestion = model.NewQuestion(number, c.clock.Now())
		sess.State = model.StateActive
		for _, p := range sess.Players {
			p.ResetBuzzer()
		}
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("question started",
		slog.String("join_code", string(code)),
		slog.Int("question", number))
	return &QuestionResult{Number: number}, nil
}

// MoveToScoring transitions active → scoring. At least one buzz record must
// exist; an empty question cannot be scored.
func (c *Controller) MoveToScoring(ctx context.Context, code model.JoinCode) (*QuestionResult, error) {
	var number int
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}
		if sess.State != model.StateActive || sess.CurrentQuestion == nil {
			return model.ErrInvalidStateTransition
		}
		if len(sess.CurrentQuestion.Presses) == 0 {
			return model.ErrNoBuzzerPresses
		}

		sess.State = model.StateScoring
		number = sess.CurrentQuestion.Number
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("scoring started",
		slog.String("join_code", string(code)),
		slog.Int("question", number))
	return &QuestionResult{Number: number}, nil
}

// SkipQuestion transitions active → waiting, discarding the current
// question. The question number stays spent; the next start allocates a
// fresh one.
func (c *Controller) SkipQuestion(ctx context.Context, code model.JoinCode) (*QuestionResult, error) {
	var number int
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}
		if sess.State != model.StateActive || sess.CurrentQuestion == nil {
			return model.ErrInvalidStateTransition
		}

		number = sess.CurrentQuestion.Number
		sess.CurrentQuestion = nil
		sess.State = model.StateWaiting
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("question skipped",
		slog.String("join_code", string(code)),
		slog.Int("question", number))
	return &QuestionResult{Number: number}, nil
}

// EndQuestion transitions scoring → waiting, completing the question
func (c *Controller) EndQuestion(ctx context.Context, code model.JoinCode) (*QuestionResult, error) {
	var number int
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}
		if sess.State != model.StateScoring || sess.CurrentQuestion == nil {
			return model.ErrInvalidStateTransition
		}

		number = sess.CurrentQuestion.Number
		sess.CurrentQuestion = nil
		sess.State = model.StateWaiting
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("question ended",
		slog.String("join_code", string(code)),
		slog.Int("question", number))
	return &QuestionResult{Number: number}, nil
}

// ScoreResult is returned from AssignPoints
type ScoreResult struct {
	PlayerID model.PlayerID
	Nickname string
	NewScore int
	Delta    int
}

// AssignPoints adds points (positive or negative, within the configured
// bound) to a player's score during scoring. Assignments accumulate;
// repeated calls add rather than overwrite.
func (c *Controller) AssignPoints(ctx context.Context, code model.JoinCode, playerID model.PlayerID, points int) (*ScoreResult, error) {
	var result ScoreResult
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}
		if sess.State != model.StateScoring {
			return model.ErrInvalidStateTransition
		}
		player, ok := sess.Players[playerID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		if points < -c.config.MaxPointsDelta || points > c.config.MaxPointsDelta {
			return model.ErrInvalidInput
		}

		player.Score += points
		result = ScoreResult{
			PlayerID: player.ID,
			Nickname: player.Nickname,
			NewScore: player.Score,
			Delta:    points,
		}
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("points assigned",
		slog.String("join_code", string(code)),
		slog.String("player", string(result.PlayerID)),
		slog.Int("delta", points),
		slog.Int("new_score", result.NewScore))
	return &result, nil
}

// EndGameResult is returned from EndGame
type EndGameResult struct {
	Leaderboard *model.LeaderboardData
}

// EndGame computes the final leaderboard over all players, connected or
// not, stores it on the session, and enters the terminal ended state. The
// session remains queryable until the GM closes it or the sweeper runs.
func (c *Controller) EndGame(ctx context.Context, code model.JoinCode) (*EndGameResult, error) {
	var board *model.LeaderboardData
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State == model.StateEnded {
			return model.ErrGameAlreadyEnded
		}

		board = leaderboard.Calculate(sess.PlayersInOrder(), sess.JoinCode, c.clock.Now())
		sess.Leaderboard = board
		sess.CurrentQuestion = nil
		sess.State = model.StateEnded
		sess.Touch(c.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game ended",
		slog.String("join_code", string(code)),
		slog.Int("players", board.TotalPlayers))
	return &EndGameResult{Leaderboard: board}, nil
}

// SessionsForGM lists metadata for every active session created with the
// given password, most recently active first. An empty match is an error so
// clients can distinguish "nothing to recover" without inspecting the list.
func (c *Controller) SessionsForGM(ctx context.Context, gmPassword string) ([]session.SessionMetadata, error) {
	if gmPassword == "" {
		return nil, model.ErrMissingRequiredField
	}
	matched := c.store.SessionsByPassword(gmPassword)
	if len(matched) == 0 {
		return nil, model.ErrNoSessionsFound
	}
	return matched, nil
}

// GMReconnectResult is returned from ReconnectGM
type GMReconnectResult struct {
	Session SessionView
}

// ReconnectGM lets a GM who lost client state recover a session by proving
// knowledge of its creation password. The password is the only credential;
// there is no separate GM identity.
func (c *Controller) ReconnectGM(ctx context.Context, code model.JoinCode, gmPassword string) (*GMReconnectResult, error) {
	if !joincode.IsValid(string(code)) {
		return nil, model.ErrInvalidJoinCode
	}

	var hash string
	err := c.store.View(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		hash = sess.GMPasswordHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Verify outside the registry lock; bcrypt is the slow path
	if !c.hasher.Verify(gmPassword, hash) {
		return nil, model.ErrPasswordMismatch
	}

	var view SessionView
	err = c.store.Update(code, func(sess *model.Session) error {
		sess.Touch(c.clock.Now())
		view = NewSessionView(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("gm reconnected", slog.String("join_code", string(code)))
	return &GMReconnectResult{Session: view}, nil
}
