package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionFull          = errors.New("session is full")
	ErrSessionInactive      = errors.New("session is no longer active")
	ErrInvalidJoinCode      = errors.New("invalid join code format")
	ErrCodeGenerationFailed = errors.New("could not generate a unique join code")

	// Player errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNotConnected = errors.New("player is not connected")
	ErrNicknameTaken      = errors.New("nickname is already taken")
	ErrInvalidNickname    = errors.New("invalid nickname")
	ErrInvalidPassword    = errors.New("invalid password")

	// Auth errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidGMPassword    = errors.New("invalid game master password")
	ErrNoSessionsFound      = errors.New("no sessions found for this password")
	ErrPasswordMismatch     = errors.New("password does not match session")

	// Game state errors
	ErrInvalidStateTransition = errors.New("invalid game state transition")
	ErrBuzzerDisabled         = errors.New("buzzer is not active")
	ErrAlreadyBuzzed          = errors.New("player has already buzzed this question")
	ErrNoBuzzerPresses        = errors.New("no buzzer presses recorded")
	ErrGameAlreadyEnded       = errors.New("game has already ended")

	// Input errors
	ErrInvalidInput         = errors.New("invalid input")
	ErrMissingRequiredField = errors.New("missing required field")
)
