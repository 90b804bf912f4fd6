package domain

import "errors"

var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrRoomExists        = errors.New("room-already-exists")
	ErrRoomNotJoinable   = errors.New("room-not-joinable")
	ErrAlreadyInRoom     = errors.New("already-in-room")
	ErrInvalidRoomConfig = errors.New("invalid-room-config")
)

var UnexpectedDatabaseError = errors.New("unexpected-database-error")
