// Package wserr maps internal errors to the stable machine-readable codes
// carried in event acknowledgements. Raw errors never cross the gateway
// boundary.
package wserr

import (
	"errors"

	"github.com/quizbuzz/quizbuzz/internal/model"
)

// Stable error codes for the event protocol
const (
	CodeSessionNotFound        = "session-not-found"
	CodeSessionFull            = "session-full"
	CodeSessionInactive        = "session-inactive"
	CodeInvalidJoinCode        = "invalid-join-code"
	CodeNicknameTaken          = "nickname-taken"
	CodeInvalidNickname        = "invalid-nickname"
	CodeInvalidPassword        = "invalid-password"
	CodePlayerNotFound         = "player-not-found"
	CodePlayerNotConnected     = "player-not-connected"
	CodeAuthenticationFailed   = "authentication-failed"
	CodeInvalidStateTransition = "invalid-state-transition"
	CodeBuzzerDisabled         = "buzzer-disabled"
	CodeNoBuzzerPresses        = "no-buzzer-presses"
	CodeAlreadyBuzzed          = "already-buzzed"
	CodeInvalidGMPassword      = "invalid-gm-password"
	CodeInvalidInput           = "invalid-input"
	CodeMissingRequiredField   = "missing-required-field"
	CodeInternalError          = "internal-error"
	CodePasswordMismatch       = "session-password-mismatch"
	CodeNoSessionsFound        = "no-sessions-found"
	CodeGameAlreadyEnded       = "game-already-ended"
)

// Error is the error body placed in a failed acknowledgement
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Internal is the generic error body for unexpected failures. It carries no
// internal detail; the detail is logged server-side.
func Internal() Error {
	return Error{Code: CodeInternalError, Message: "An internal error occurred"}
}

// FromError converts an internal error to its protocol error body.
// Unrecognized errors map to internal-error.
func FromError(err error) Error {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return Error{CodeSessionNotFound, "Session not found"}
	case errors.Is(err, model.ErrSessionFull):
		return Error{CodeSessionFull, "Session is full"}
	case errors.Is(err, model.ErrSessionInactive):
		return Error{CodeSessionInactive, "Session is no longer active"}
	case errors.Is(err, model.ErrInvalidJoinCode):
		return Error{CodeInvalidJoinCode, "Invalid join code"}
	case errors.Is(err, model.ErrNicknameTaken):
		return Error{CodeNicknameTaken, "Nickname is already taken"}
	case errors.Is(err, model.ErrInvalidNickname):
		return Error{CodeInvalidNickname, "Nickname must be 1-20 letters, numbers, or spaces"}
	case errors.Is(err, model.ErrInvalidPassword):
		return Error{CodeInvalidPassword, "Password must be 4-20 characters"}
	case errors.Is(err, model.ErrPlayerNotFound):
		return Error{CodePlayerNotFound, "Player not found"}
	case errors.Is(err, model.ErrPlayerNotConnected):
		return Error{CodePlayerNotConnected, "Player is not connected"}
	case errors.Is(err, model.ErrAuthenticationFailed):
		return Error{CodeAuthenticationFailed, "Nickname or password is incorrect"}
	case errors.Is(err, model.ErrInvalidStateTransition):
		return Error{CodeInvalidStateTransition, "Operation not allowed in the current game state"}
	case errors.Is(err, model.ErrBuzzerDisabled):
		return Error{CodeBuzzerDisabled, "Buzzer is not active right now"}
	case errors.Is(err, model.ErrNoBuzzerPresses):
		return Error{CodeNoBuzzerPresses, "No buzzer presses recorded for this question"}
	case errors.Is(err, model.ErrAlreadyBuzzed):
		return Error{CodeAlreadyBuzzed, "You already buzzed for this question"}
	case errors.Is(err, model.ErrInvalidGMPassword):
		return Error{CodeInvalidGMPassword, "Invalid game master password"}
	case errors.Is(err, model.ErrInvalidInput):
		return Error{CodeInvalidInput, "Invalid input"}
	case errors.Is(err, model.ErrMissingRequiredField):
		return Error{CodeMissingRequiredField, "A required field is missing"}
	case errors.Is(err, model.ErrPasswordMismatch):
		return Error{CodePasswordMismatch, "Password does not match this session"}
	case errors.Is(err, model.ErrNoSessionsFound):
		return Error{CodeNoSessionsFound, "No sessions found for this password"}
	case errors.Is(err, model.ErrGameAlreadyEnded):
		return Error{CodeGameAlreadyEnded, "The game has already ended"}
	case errors.Is(err, model.ErrCodeGenerationFailed):
		return Internal()
	default:
		return Internal()
	}
}
