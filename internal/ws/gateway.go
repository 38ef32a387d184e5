package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizbuzz/quizbuzz/internal/services/game"
	"github.com/quizbuzz/quizbuzz/internal/ws/wserr"
)

// handlerFunc processes one decoded client frame and returns the ack to send
type handlerFunc func(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack

// Gateway is the websocket transport: it upgrades connections, decodes
// request frames, dispatches them to event handlers, and relays room
// broadcasts. No other component touches the network.
type Gateway struct {
	controller *game.Controller
	rooms      *Rooms
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	handlers   map[string]handlerFunc
}

// NewGateway creates a Gateway. allowedOrigin restricts websocket upgrades;
// an empty value allows any origin.
func NewGateway(controller *game.Controller, rooms *Rooms, allowedOrigin string, logger *slog.Logger) *Gateway {
	g := &Gateway{
		controller: controller,
		rooms:      rooms,
		logger:     logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}

	g.handlers = map[string]handlerFunc{
		EventCreateSession:      g.handleCreateSession,
		EventEndSession:         g.handleEndSession,
		EventStartQuestion:      g.handleStartQuestion,
		EventMoveToScoring:      g.handleMoveToScoring,
		EventSkipQuestion:       g.handleSkipQuestion,
		EventEndQuestion:        g.handleEndQuestion,
		EventAssignPoints:       g.handleAssignPoints,
		EventEndGame:            g.handleEndGame,
		EventGetActiveSessions:  g.handleGetActiveSessions,
		EventReconnectToSession: g.handleReconnectToSession,
		EventPlayerJoin:         g.handlePlayerJoin,
		EventPlayerRejoin:       g.handlePlayerRejoin,
		EventPressBuzzer:        g.handlePressBuzzer,
		EventChangeBuzzerSound:  g.handleChangeBuzzerSound,
	}

	return g
}

// ServeHTTP upgrades the request and runs the connection's read loop
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(sock)
	g.logger.Info("client connected", slog.String("conn_id", conn.ID()))

	sock.SetReadLimit(4096)
	_ = sock.SetReadDeadline(time.Now().Add(pongTimeout))
	sock.SetPongHandler(func(string) error {
		return sock.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	g.readLoop(r.Context(), conn)
}

func (g *Gateway) readLoop(ctx context.Context, conn *Conn) {
	defer g.disconnect(ctx, conn)

	for {
		_, data, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			g.logger.Warn("malformed frame",
				slog.String("conn_id", conn.ID()),
				slog.String("error", err.Error()))
			continue
		}

		ack := g.dispatch(ctx, conn, frame)
		if err := conn.Send(ack); err != nil {
			g.logger.Warn("ack send failed",
				slog.String("conn_id", conn.ID()),
				slog.String("event", frame.Event),
				slog.String("error", err.Error()))
		}
	}
}

// dispatch routes one frame to its handler. Handler panics become
// internal-error acks rather than taking the process down.
func (g *Gateway) dispatch(ctx context.Context, conn *Conn, frame ClientFrame) (ack Ack) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("handler panic",
				slog.String("event", frame.Event),
				slog.Any("panic", rec))
			ack = errAck(frame.ID, wserr.Internal())
		}
	}()

	handler, ok := g.handlers[frame.Event]
	if !ok {
		g.logger.Warn("unknown event",
			slog.String("conn_id", conn.ID()),
			slog.String("event", frame.Event))
		return errAck(frame.ID, wserr.Error{
			Code:    wserr.CodeInvalidInput,
			Message: "Unknown event: " + frame.Event,
		})
	}

	return handler(ctx, conn, frame.Data, frame.ID)
}

// disconnect tears down a closed connection: it leaves its room, the owning
// player (if any) is marked disconnected, and the room is told.
func (g *Gateway) disconnect(ctx context.Context, conn *Conn) {
	conn.Close()
	g.rooms.Leave(conn)

	if result, ok := g.controller.HandleDisconnect(ctx, conn.ID()); ok {
		g.rooms.Broadcast(result.JoinCode, BroadcastPlayerDisconnected, playerDisconnectedPayload{
			PlayerID:   result.PlayerID,
			PlayerName: result.Nickname,
		}, nil)
	}

	g.logger.Info("client disconnected", slog.String("conn_id", conn.ID()))
}

func decode[T any](data json.RawMessage) (T, bool) {
	var v T
	if len(data) == 0 {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}
