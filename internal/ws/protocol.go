package ws

import (
	"encoding/json"

	"github.com/quizbuzz/quizbuzz/internal/ws/wserr"
)

// ClientFrame is an inbound request. Every client-initiated event carries an
// id; the server answers each id with exactly one Ack.
type ClientFrame struct {
	ID    int64           `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Ack is the response to a ClientFrame
type Ack struct {
	ID    int64        `json:"id"`
	OK    bool         `json:"ok"`
	Error *wserr.Error `json:"error,omitempty"`
	Data  any          `json:"data,omitempty"`
}

// ServerEvent is a server-initiated broadcast; it carries no id and expects
// no response.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func okAck(id int64, data any) Ack {
	return Ack{ID: id, OK: true, Data: data}
}

func errAck(id int64, e wserr.Error) Ack {
	return Ack{ID: id, OK: false, Error: &e}
}
