package ws

import (
	"time"

	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/services/game"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
)

// Client-initiated event names
const (
	EventCreateSession      = "gm:createSession"
	EventEndSession         = "gm:endSession"
	EventStartQuestion      = "gm:startQuestion"
	EventMoveToScoring      = "gm:moveToScoring"
	EventSkipQuestion       = "gm:skipQuestion"
	EventEndQuestion        = "gm:endQuestion"
	EventAssignPoints       = "gm:assignPoints"
	EventEndGame            = "gm:endGame"
	EventGetActiveSessions  = "gm:getActiveSessions"
	EventReconnectToSession = "gm:reconnectToSession"

	EventPlayerJoin        = "player:join"
	EventPlayerRejoin      = "player:rejoin"
	EventPressBuzzer       = "player:pressBuzzer"
	EventChangeBuzzerSound = "player:changeBuzzerSound"
)

// Server-pushed broadcast names
const (
	BroadcastSessionCreated     = "session:created"
	BroadcastSessionEnded       = "session:ended"
	BroadcastGMReconnected      = "session:gmReconnected"
	BroadcastPlayerJoined       = "player:joined"
	BroadcastPlayerReconnected  = "player:reconnected"
	BroadcastPlayerDisconnected = "player:disconnected"
	BroadcastScoreUpdated       = "player:scoreUpdated"
	BroadcastSoundChanged       = "player:buzzerSoundChanged"
	BroadcastStateChanged       = "game:stateChanged"
	BroadcastQuestionStarted    = "game:questionStarted"
	BroadcastScoringStarted     = "game:scoringStarted"
	BroadcastQuestionSkipped    = "game:questionSkipped"
	BroadcastQuestionEnded      = "game:questionEnded"
	BroadcastGameEnded          = "game:ended"
	BroadcastBuzzerPressed      = "buzzer:pressed"
	BroadcastBuzzerFirst        = "buzzer:first"
)

// Request payloads

type createSessionRequest struct {
	GMPassword string `json:"gmPassword"`
}

type joinCodeRequest struct {
	JoinCode string `json:"joinCode"`
}

type assignPointsRequest struct {
	JoinCode string `json:"joinCode"`
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type gmPasswordRequest struct {
	GMPassword string `json:"gmPassword"`
}

type gmReconnectRequest struct {
	JoinCode   string `json:"joinCode"`
	GMPassword string `json:"gmPassword"`
}

type playerJoinRequest struct {
	JoinCode string `json:"joinCode"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type pressBuzzerRequest struct {
	JoinCode string `json:"joinCode"`
	PlayerID string `json:"playerId"`
}

type changeBuzzerSoundRequest struct {
	JoinCode    string `json:"joinCode"`
	PlayerID    string `json:"playerId"`
	BuzzerSound string `json:"buzzerSound"`
}

// Ack payloads

type createSessionAck struct {
	JoinCode model.JoinCode   `json:"joinCode"`
	Session  game.SessionView `json:"session"`
}

type questionAck struct {
	QuestionNumber int `json:"questionNumber"`
}

type assignPointsAck struct {
	NewScore int `json:"newScore"`
}

type endGameAck struct {
	Leaderboard *model.LeaderboardData `json:"leaderboard"`
}

type sessionListAck struct {
	Sessions   []session.SessionMetadata `json:"sessions"`
	TotalCount int                       `json:"totalCount"`
}

type gmReconnectAck struct {
	Session game.SessionView `json:"session"`
}

type joinAck struct {
	Player  game.PlayerView  `json:"player"`
	Session game.SessionView `json:"session"`
}

type buzzAck struct {
	Timestamp time.Time `json:"timestamp"`
}

// Broadcast payloads

type sessionCreatedPayload struct {
	JoinCode model.JoinCode   `json:"joinCode"`
	Session  game.SessionView `json:"session"`
}

type sessionEndedPayload struct {
	JoinCode model.JoinCode `json:"joinCode"`
	Reason   string         `json:"reason"`
}

type gmReconnectedPayload struct {
	JoinCode model.JoinCode `json:"joinCode"`
}

type playerPayload struct {
	Player game.PlayerView `json:"player"`
}

type playerDisconnectedPayload struct {
	PlayerID   model.PlayerID `json:"playerId"`
	PlayerName string         `json:"playerName"`
}

type scoreUpdatedPayload struct {
	PlayerID    model.PlayerID `json:"playerId"`
	NewScore    int            `json:"newScore"`
	PointsAdded int            `json:"pointsAdded"`
}

type soundChangedPayload struct {
	PlayerID model.PlayerID    `json:"playerId"`
	NewSound model.BuzzerSound `json:"newSound"`
}

type stateChangedPayload struct {
	JoinCode       model.JoinCode  `json:"joinCode"`
	NewState       model.GameState `json:"newState"`
	QuestionNumber int             `json:"questionNumber"`
}

type questionPayload struct {
	QuestionNumber int `json:"questionNumber"`
}

type gameEndedPayload struct {
	JoinCode    model.JoinCode         `json:"joinCode"`
	Leaderboard *model.LeaderboardData `json:"leaderboard"`
}

type buzzerPressedPayload struct {
	PlayerID   model.PlayerID `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Timestamp  time.Time      `json:"timestamp"`
	IsFirst    bool           `json:"isFirst"`
}

type buzzerFirstPayload struct {
	PlayerID   model.PlayerID `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Timestamp  time.Time      `json:"timestamp"`
}
