package ws

import (
	"context"
	"encoding/json"

	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/ws/wserr"
)

// sessionEndedReason is the human-readable reason sent with session:ended
const sessionEndedReason = "Game master ended the session"

func (g *Gateway) handleCreateSession(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[createSessionRequest](data)
	if !ok || req.GMPassword == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}

	result, err := g.controller.CreateSession(ctx, req.GMPassword)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	// The creating socket joins the room so it receives player updates
	g.rooms.Join(result.JoinCode, conn)

	_ = conn.Send(ServerEvent{Event: BroadcastSessionCreated, Data: sessionCreatedPayload{
		JoinCode: result.JoinCode,
		Session:  result.Session,
	}})

	return okAck(ackID, createSessionAck{JoinCode: result.JoinCode, Session: result.Session})
}

func (g *Gateway) handleEndSession(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	if err := g.controller.EndSession(ctx, code); err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastSessionEnded, sessionEndedPayload{
		JoinCode: code,
		Reason:   sessionEndedReason,
	}, conn)

	return okAck(ackID, nil)
}

func (g *Gateway) handleStartQuestion(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.StartQuestion(ctx, code)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastQuestionStarted, questionPayload{QuestionNumber: result.Number}, nil)
	g.rooms.Broadcast(code, BroadcastStateChanged, stateChangedPayload{
		JoinCode:       code,
		NewState:       model.StateActive,
		QuestionNumber: result.Number,
	}, nil)

	return okAck(ackID, questionAck{QuestionNumber: result.Number})
}

func (g *Gateway) handleMoveToScoring(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.MoveToScoring(ctx, code)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastScoringStarted, questionPayload{QuestionNumber: result.Number}, nil)
	g.rooms.Broadcast(code, BroadcastStateChanged, stateChangedPayload{
		JoinCode:       code,
		NewState:       model.StateScoring,
		QuestionNumber: result.Number,
	}, nil)

	return okAck(ackID, questionAck{QuestionNumber: result.Number})
}

func (g *Gateway) handleSkipQuestion(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.SkipQuestion(ctx, code)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastQuestionSkipped, questionPayload{QuestionNumber: result.Number}, nil)
	// The skipped number stays spent; there is no active question now
	g.rooms.Broadcast(code, BroadcastStateChanged, stateChangedPayload{
		JoinCode:       code,
		NewState:       model.StateWaiting,
		QuestionNumber: 0,
	}, nil)

	return okAck(ackID, questionAck{QuestionNumber: result.Number})
}

func (g *Gateway) handleEndQuestion(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.EndQuestion(ctx, code)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastQuestionEnded, questionPayload{QuestionNumber: result.Number}, nil)
	g.rooms.Broadcast(code, BroadcastStateChanged, stateChangedPayload{
		JoinCode:       code,
		NewState:       model.StateWaiting,
		QuestionNumber: 0,
	}, nil)

	return okAck(ackID, questionAck{QuestionNumber: result.Number})
}

func (g *Gateway) handleAssignPoints(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[assignPointsRequest](data)
	if !ok || req.JoinCode == "" || req.PlayerID == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.AssignPoints(ctx, code, model.PlayerID(req.PlayerID), req.Points)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastScoreUpdated, scoreUpdatedPayload{
		PlayerID:    result.PlayerID,
		NewScore:    result.NewScore,
		PointsAdded: result.Delta,
	}, nil)

	return okAck(ackID, assignPointsAck{NewScore: result.NewScore})
}

func (g *Gateway) handleEndGame(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[joinCodeRequest](data)
	if !ok || req.JoinCode == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.EndGame(ctx, code)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastGameEnded, gameEndedPayload{
		JoinCode:    code,
		Leaderboard: result.Leaderboard,
	}, nil)

	return okAck(ackID, endGameAck{Leaderboard: result.Leaderboard})
}

func (g *Gateway) handleGetActiveSessions(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[gmPasswordRequest](data)
	if !ok || req.GMPassword == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}

	sessions, err := g.controller.SessionsForGM(ctx, req.GMPassword)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	return okAck(ackID, sessionListAck{Sessions: sessions, TotalCount: len(sessions)})
}

func (g *Gateway) handleReconnectToSession(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[gmReconnectRequest](data)
	if !ok || req.JoinCode == "" || req.GMPassword == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.ReconnectGM(ctx, code, req.GMPassword)
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Join(code, conn)
	g.rooms.Broadcast(code, BroadcastGMReconnected, gmReconnectedPayload{JoinCode: code}, conn)

	return okAck(ackID, gmReconnectAck{Session: result.Session})
}
