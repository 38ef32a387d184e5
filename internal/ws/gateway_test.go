package ws_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/quizbuzz/quizbuzz/internal/factory"
	"github.com/quizbuzz/quizbuzz/internal/model"
)

// wireMessage is the union of acks and server events as seen on the wire
type wireMessage struct {
	ID    int64           `json:"id"`
	OK    bool            `json:"ok"`
	Event string          `json:"event"`
	Error *wireError      `json:"error"`
	Data  json.RawMessage `json:"data"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GatewaySuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
	conns  []*websocket.Conn
	nextID int64
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(s.app.Gateway)
	s.conns = nil
	s.nextID = 0
}

func (s *GatewaySuite) TearDownTest() {
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.server.Close()
	s.app.Close()
}

func (s *GatewaySuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.conns = append(s.conns, conn)
	return conn
}

func (s *GatewaySuite) send(conn *websocket.Conn, event string, data any) int64 {
	s.nextID++
	payload, err := json.Marshal(data)
	s.Require().NoError(err)
	frame := map[string]any{"id": s.nextID, "event": event, "data": json.RawMessage(payload)}
	s.Require().NoError(conn.WriteJSON(frame))
	return s.nextID
}

func (s *GatewaySuite) read(conn *websocket.Conn) wireMessage {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)

	var msg wireMessage
	s.Require().NoError(json.Unmarshal(data, &msg))
	return msg
}

// readAck skips broadcasts until the ack for id arrives
func (s *GatewaySuite) readAck(conn *websocket.Conn, id int64) wireMessage {
	for i := 0; i < 10; i++ {
		msg := s.read(conn)
		if msg.Event == "" && msg.ID == id {
			return msg
		}
	}
	s.Require().FailNow("no ack received for frame", "id %d", id)
	return wireMessage{}
}

// readEvent skips messages until the named broadcast arrives
func (s *GatewaySuite) readEvent(conn *websocket.Conn, event string) wireMessage {
	for i := 0; i < 10; i++ {
		msg := s.read(conn)
		if msg.Event == event {
			return msg
		}
	}
	s.Require().FailNow("broadcast not received", "event %s", event)
	return wireMessage{}
}

func (s *GatewaySuite) createSession(gm *websocket.Conn) model.JoinCode {
	s.app.MockRandom.QueueString("ABC234")
	id := s.send(gm, "gm:createSession", map[string]string{"gmPassword": "gm-pass"})

	ack := s.readAck(gm, id)
	s.Require().True(ack.OK)

	var payload struct {
		JoinCode model.JoinCode `json:"joinCode"`
	}
	s.Require().NoError(json.Unmarshal(ack.Data, &payload))
	return payload.JoinCode
}

func (s *GatewaySuite) joinPlayer(conn *websocket.Conn, code model.JoinCode, nickname string) model.PlayerID {
	id := s.send(conn, "player:join", map[string]any{
		"joinCode": string(code),
		"nickname": nickname,
		"password": "secret1",
	})

	ack := s.readAck(conn, id)
	s.Require().True(ack.OK)

	var payload struct {
		Player struct {
			PlayerID model.PlayerID `json:"playerId"`
		} `json:"player"`
	}
	s.Require().NoError(json.Unmarshal(ack.Data, &payload))
	return payload.Player.PlayerID
}

func (s *GatewaySuite) TestCreateSession() {
	gm := s.dial()
	code := s.createSession(gm)
	s.Equal(model.JoinCode("ABC234"), code)
}

func (s *GatewaySuite) TestCreateSessionMissingPassword() {
	gm := s.dial()
	id := s.send(gm, "gm:createSession", map[string]string{})

	ack := s.readAck(gm, id)
	s.False(ack.OK)
	s.Require().NotNil(ack.Error)
	s.Equal("missing-required-field", ack.Error.Code)
}

func (s *GatewaySuite) TestUnknownEvent() {
	gm := s.dial()
	id := s.send(gm, "gm:doMagic", map[string]string{})

	ack := s.readAck(gm, id)
	s.False(ack.OK)
	s.Require().NotNil(ack.Error)
	s.Equal("invalid-input", ack.Error.Code)
}

func (s *GatewaySuite) TestJoinNotifiesRoom() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	s.joinPlayer(player, code, "Alice")

	joined := s.readEvent(gm, "player:joined")
	var payload struct {
		Player struct {
			Nickname string `json:"nickname"`
		} `json:"player"`
	}
	s.Require().NoError(json.Unmarshal(joined.Data, &payload))
	s.Equal("Alice", payload.Player.Nickname)
}

func (s *GatewaySuite) TestQuestionFlowBroadcasts() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	playerID := s.joinPlayer(player, code, "Alice")
	s.readEvent(gm, "player:joined")

	id := s.send(gm, "gm:startQuestion", map[string]string{"joinCode": string(code)})
	started := s.readEvent(gm, "game:questionStarted")
	var question struct {
		QuestionNumber int `json:"questionNumber"`
	}
	s.Require().NoError(json.Unmarshal(started.Data, &question))
	s.Equal(1, question.QuestionNumber)

	changed := s.readEvent(gm, "game:stateChanged")
	var state struct {
		NewState model.GameState `json:"newState"`
	}
	s.Require().NoError(json.Unmarshal(changed.Data, &state))
	s.Equal(model.StateActive, state.NewState)
	s.True(s.readAck(gm, id).OK)

	// The player sees the same transition
	s.readEvent(player, "game:questionStarted")
	s.readEvent(player, "game:stateChanged")

	// First press is announced to everyone, including the presser
	id = s.send(player, "player:pressBuzzer", map[string]string{
		"joinCode": string(code),
		"playerId": string(playerID),
	})
	pressed := s.readEvent(player, "buzzer:pressed")
	var buzz struct {
		PlayerName string `json:"playerName"`
		IsFirst    bool   `json:"isFirst"`
	}
	s.Require().NoError(json.Unmarshal(pressed.Data, &buzz))
	s.Equal("Alice", buzz.PlayerName)
	s.True(buzz.IsFirst)

	s.readEvent(player, "buzzer:first")
	s.True(s.readAck(player, id).OK)

	s.readEvent(gm, "buzzer:pressed")
	s.readEvent(gm, "buzzer:first")
}

func (s *GatewaySuite) TestRepeatBuzzRejected() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	playerID := s.joinPlayer(player, code, "Alice")

	id := s.send(gm, "gm:startQuestion", map[string]string{"joinCode": string(code)})
	s.True(s.readAck(gm, id).OK)

	id = s.send(player, "player:pressBuzzer", map[string]string{
		"joinCode": string(code),
		"playerId": string(playerID),
	})
	s.True(s.readAck(player, id).OK)

	id = s.send(player, "player:pressBuzzer", map[string]string{
		"joinCode": string(code),
		"playerId": string(playerID),
	})
	ack := s.readAck(player, id)
	s.False(ack.OK)
	s.Require().NotNil(ack.Error)
	s.Equal("already-buzzed", ack.Error.Code)
}

func (s *GatewaySuite) TestEndSessionBroadcastsReason() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	s.joinPlayer(player, code, "Alice")

	id := s.send(gm, "gm:endSession", map[string]string{"joinCode": string(code)})
	s.True(s.readAck(gm, id).OK)

	ended := s.readEvent(player, "session:ended")
	var payload struct {
		Reason string `json:"reason"`
	}
	s.Require().NoError(json.Unmarshal(ended.Data, &payload))
	s.Equal("Game master ended the session", payload.Reason)
}

func (s *GatewaySuite) TestDisconnectNotifiesRoom() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	s.joinPlayer(player, code, "Alice")
	s.readEvent(gm, "player:joined")

	s.Require().NoError(player.Close())

	gone := s.readEvent(gm, "player:disconnected")
	var payload struct {
		PlayerName string `json:"playerName"`
	}
	s.Require().NoError(json.Unmarshal(gone.Data, &payload))
	s.Equal("Alice", payload.PlayerName)
}

func (s *GatewaySuite) TestEndGameDeliversLeaderboard() {
	gm := s.dial()
	code := s.createSession(gm)

	player := s.dial()
	s.joinPlayer(player, code, "Alice")

	id := s.send(gm, "gm:endGame", map[string]string{"joinCode": string(code)})
	ack := s.readAck(gm, id)
	s.Require().True(ack.OK)

	var payload struct {
		Leaderboard struct {
			Entries []struct {
				Nickname string `json:"nickname"`
				Rank     int    `json:"rank"`
			} `json:"entries"`
		} `json:"leaderboard"`
	}
	s.Require().NoError(json.Unmarshal(ack.Data, &payload))
	s.Require().Len(payload.Leaderboard.Entries, 1)
	s.Equal("Alice", payload.Leaderboard.Entries[0].Nickname)
	s.Equal(1, payload.Leaderboard.Entries[0].Rank)
}
