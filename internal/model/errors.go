package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomExists   = errors.New("room code already in use")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrAlreadyJoined  = errors.New("player is already in room")

	// Store errors
	ErrVersionConflict      = errors.New("session was modified concurrently")
	ErrConnectionNotIndexed = errors.New("connection is not in any room")

	// Question errors
	ErrQuestionSetEmpty = errors.New("question set is empty")
	ErrInvalidOption    = errors.New("option index out of range")
)
