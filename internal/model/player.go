package model

import "time"

// PlayerID uniquely identifies a player within a session
type PlayerID string

// BuzzerSound identifies the sound a player's buzzer makes on the clients
type BuzzerSound string

const (
	SoundPartyHorn BuzzerSound = "party_horn"
	SoundBurps     BuzzerSound = "burps"
	SoundFarts     BuzzerSound = "farts"
	SoundScreams   BuzzerSound = "screams"
	SoundSnore     BuzzerSound = "snore"
	SoundMoan      BuzzerSound = "moan"
)

// DefaultBuzzerSound is assigned to every player at join time
const DefaultBuzzerSound = SoundPartyHorn

// IsValidBuzzerSound reports whether s is one of the known buzzer sounds
func IsValidBuzzerSound(s BuzzerSound) bool {
	switch s {
	case SoundPartyHorn, SoundBurps, SoundFarts, SoundScreams, SoundSnore, SoundMoan:
		return true
	}
	return false
}

// Player represents a participant in a session.
// A player is never removed while the session lives; disconnection only
// clears the transport binding so a later rejoin restores the same player.
type Player struct {
	ID           PlayerID
	Nickname     string
	PasswordHash string // bcrypt hash of the reconnection password
	Score        int
	BuzzerSound  BuzzerSound
	ConnectionID string // transport reference, empty when disconnected
	IsConnected  bool
	LastBuzzAt   *time.Time // nil until the player buzzes in the current question
	CreatedAt    time.Time
}

// Reconnect binds the player to a new transport connection
func (p *Player) Reconnect(connectionID string) {
	p.ConnectionID = connectionID
	p.IsConnected = true
}

// Disconnect clears the player's transport binding without removing them
func (p *Player) Disconnect() {
	p.ConnectionID = ""
	p.IsConnected = false
}

// ResetBuzzer clears the last-buzz timestamp for a new question
func (p *Player) ResetBuzzer() {
	p.LastBuzzAt = nil
}
