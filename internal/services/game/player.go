package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quizbuzz/quizbuzz/internal/joincode"
	"github.com/quizbuzz/quizbuzz/internal/model"
)

// JoinResult is returned from Join and Rejoin
type JoinResult struct {
	Player  PlayerView
	Session SessionView
}

// Join adds a new player to a session. The reconnection password is hashed
// at rest; the plaintext is never stored.
func (c *Controller) Join(ctx context.Context, code model.JoinCode, nickname, password, connectionID string) (*JoinResult, error) {
	if !joincode.IsValid(string(code)) {
		return nil, model.ErrInvalidJoinCode
	}

	nickname = SanitizeNickname(nickname)

	// Validate and hash before taking the registry lock; guards that need
	// session state run inside Update in the order the contract requires.
	if err := c.store.View(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if !sess.HasSpace(c.config.MaxPlayers) {
			return model.ErrSessionFull
		}
		if !ValidNickname(nickname) {
			return model.ErrInvalidNickname
		}
		if sess.IsNicknameTaken(nickname) {
			return model.ErrNicknameTaken
		}
		if !ValidPassword(password) {
			return model.ErrInvalidPassword
		}
		return nil
	}); err != nil {
		return nil, err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		c.logger.Error("player password hash failed", slog.String("error", err.Error()))
		return nil, err
	}

	player := &model.Player{
		ID:           model.PlayerID(uuid.NewString()),
		Nickname:     nickname,
		PasswordHash: hash,
		BuzzerSound:  model.DefaultBuzzerSound,
		ConnectionID: connectionID,
		IsConnected:  true,
		CreatedAt:    c.clock.Now(),
	}

	var result JoinResult
	err = c.store.Update(code, func(sess *model.Session) error {
		// Re-check the guards that could have changed while hashing
		if err := requireActive(sess); err != nil {
			return err
		}
		if !sess.HasSpace(c.config.MaxPlayers) {
			return model.ErrSessionFull
		}
		if sess.IsNicknameTaken(nickname) {
			return model.ErrNicknameTaken
		}

		sess.AddPlayer(player)
		sess.Touch(c.clock.Now())
		result = JoinResult{
			Player:  NewPlayerView(player),
			Session: NewSessionView(sess),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("join_code", string(code)),
		slog.String("player", string(player.ID)),
		slog.String("nickname", nickname))
	return &result, nil
}

// Rejoin restores a disconnected player by nickname and password. Any
// mismatch returns a single authentication-failed error so callers cannot
// probe which half was wrong.
func (c *Controller) Rejoin(ctx context.Context, code model.JoinCode, nickname, password, connectionID string) (*JoinResult, error) {
	if !joincode.IsValid(string(code)) {
		return nil, model.ErrInvalidJoinCode
	}

	nickname = SanitizeNickname(nickname)

	var passwordHash string
	if err := c.store.View(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		p := sess.FindPlayerByNickname(nickname)
		if p == nil {
			return model.ErrAuthenticationFailed
		}
		passwordHash = p.PasswordHash
		return nil
	}); err != nil {
		return nil, err
	}

	if !c.hasher.Verify(password, passwordHash) {
		return nil, model.ErrAuthenticationFailed
	}

	var result JoinResult
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		p := sess.FindPlayerByNickname(nickname)
		if p == nil {
			return model.ErrAuthenticationFailed
		}

		p.Reconnect(connectionID)
		sess.Touch(c.clock.Now())
		result = JoinResult{
			Player:  NewPlayerView(p),
			Session: NewSessionView(sess),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player reconnected",
		slog.String("join_code", string(code)),
		slog.String("player", string(result.Player.PlayerID)))
	return &result, nil
}

// DisconnectResult identifies the player a closed transport belonged to
type DisconnectResult struct {
	JoinCode model.JoinCode
	PlayerID model.PlayerID
	Nickname string
}

// HandleDisconnect marks the player bound to connectionID as disconnected.
// The player record stays in the roster so a later Rejoin restores it. This
// is an O(sessions x players) scan, fine at this system's scale.
func (c *Controller) HandleDisconnect(ctx context.Context, connectionID string) (*DisconnectResult, bool) {
	var result *DisconnectResult
	c.store.ForEach(func(sess *model.Session) bool {
		for _, p := range sess.Players {
			if p.ConnectionID == connectionID && p.IsConnected {
				p.Disconnect()
				result = &DisconnectResult{
					JoinCode: sess.JoinCode,
					PlayerID: p.ID,
					Nickname: p.Nickname,
				}
				return false
			}
		}
		return true
	})

	if result == nil {
		return nil, false
	}
	c.logger.Info("player disconnected",
		slog.String("join_code", string(result.JoinCode)),
		slog.String("player", string(result.PlayerID)))
	return result, true
}

// BuzzResult is returned from PressBuzzer
type BuzzResult struct {
	PlayerID   model.PlayerID
	PlayerName string
	Timestamp  time.Time
	IsFirst    bool
}

// PressBuzzer appends a buzz record to the current question. First-press
// detection is by arrival order under the store lock: whichever press is
// appended first is first, regardless of client clocks. A repeat press by
// the same player is rejected.
func (c *Controller) PressBuzzer(ctx context.Context, code model.JoinCode, playerID model.PlayerID) (*BuzzResult, error) {
	var result BuzzResult
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		if sess.State != model.StateActive || sess.CurrentQuestion == nil {
			return model.ErrBuzzerDisabled
		}
		player, ok := sess.Players[playerID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		if sess.CurrentQuestion.HasPressed(playerID) {
			return model.ErrAlreadyBuzzed
		}

		now := c.clock.Now()
		isFirst := sess.CurrentQuestion.AddPress(player.ID, player.Nickname, now)
		player.LastBuzzAt = &now
		sess.Touch(now)

		result = BuzzResult{
			PlayerID:   player.ID,
			PlayerName: player.Nickname,
			Timestamp:  now,
			IsFirst:    isFirst,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("buzzer pressed",
		slog.String("join_code", string(code)),
		slog.String("player", string(result.PlayerID)),
		slog.Bool("first", result.IsFirst))
	return &result, nil
}

// SoundResult is returned from ChangeBuzzerSound
type SoundResult struct {
	PlayerID model.PlayerID
	Sound    model.BuzzerSound
}

// ChangeBuzzerSound updates a player's selected buzzer sound
func (c *Controller) ChangeBuzzerSound(ctx context.Context, code model.JoinCode, playerID model.PlayerID, sound model.BuzzerSound) (*SoundResult, error) {
	var result SoundResult
	err := c.store.Update(code, func(sess *model.Session) error {
		if err := requireActive(sess); err != nil {
			return err
		}
		player, ok := sess.Players[playerID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		if !model.IsValidBuzzerSound(sound) {
			return model.ErrInvalidInput
		}

		player.BuzzerSound = sound
		sess.Touch(c.clock.Now())
		result = SoundResult{PlayerID: player.ID, Sound: sound}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
