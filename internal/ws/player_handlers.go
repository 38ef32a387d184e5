package ws

import (
	"context"
	"encoding/json"

	"github.com/quizbuzz/quizbuzz/internal/model"
	"github.com/quizbuzz/quizbuzz/internal/ws/wserr"
)

func (g *Gateway) handlePlayerJoin(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[playerJoinRequest](data)
	if !ok || req.JoinCode == "" || req.Nickname == "" || req.Password == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.Join(ctx, code, req.Nickname, req.Password, conn.ID())
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Join(code, conn)
	g.rooms.Broadcast(code, BroadcastPlayerJoined, playerPayload{Player: result.Player}, conn)

	return okAck(ackID, joinAck{Player: result.Player, Session: result.Session})
}

func (g *Gateway) handlePlayerRejoin(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[playerJoinRequest](data)
	if !ok || req.JoinCode == "" || req.Nickname == "" || req.Password == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.Rejoin(ctx, code, req.Nickname, req.Password, conn.ID())
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Join(code, conn)
	g.rooms.Broadcast(code, BroadcastPlayerReconnected, playerPayload{Player: result.Player}, conn)

	return okAck(ackID, joinAck{Player: result.Player, Session: result.Session})
}

func (g *Gateway) handlePressBuzzer(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[pressBuzzerRequest](data)
	if !ok || req.JoinCode == "" || req.PlayerID == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.PressBuzzer(ctx, code, model.PlayerID(req.PlayerID))
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	// Everyone in the room hears the press, including the player who made it
	g.rooms.Broadcast(code, BroadcastBuzzerPressed, buzzerPressedPayload{
		PlayerID:   result.PlayerID,
		PlayerName: result.PlayerName,
		Timestamp:  result.Timestamp,
		IsFirst:    result.IsFirst,
	}, nil)

	if result.IsFirst {
		g.rooms.Broadcast(code, BroadcastBuzzerFirst, buzzerFirstPayload{
			PlayerID:   result.PlayerID,
			PlayerName: result.PlayerName,
			Timestamp:  result.Timestamp,
		}, nil)
	}

	return okAck(ackID, buzzAck{Timestamp: result.Timestamp})
}

func (g *Gateway) handleChangeBuzzerSound(ctx context.Context, conn *Conn, data json.RawMessage, ackID int64) Ack {
	req, ok := decode[changeBuzzerSoundRequest](data)
	if !ok || req.JoinCode == "" || req.PlayerID == "" || req.BuzzerSound == "" {
		return errAck(ackID, wserr.FromError(model.ErrMissingRequiredField))
	}
	code := model.JoinCode(req.JoinCode)

	result, err := g.controller.ChangeBuzzerSound(ctx, code, model.PlayerID(req.PlayerID), model.BuzzerSound(req.BuzzerSound))
	if err != nil {
		return errAck(ackID, wserr.FromError(err))
	}

	g.rooms.Broadcast(code, BroadcastSoundChanged, soundChangedPayload{
		PlayerID: result.PlayerID,
		NewSound: result.Sound,
	}, conn)

	return okAck(ackID, nil)
}
