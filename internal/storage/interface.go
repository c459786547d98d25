package storage

import (
	"context"

	"github.com/mcoot/triviaduel/internal/model"
)

// Storage defines the interface for room session persistence. Sessions
// may be read and written by concurrent handler invocations, possibly
// from different processes, so writes that depend on prior reads should
// go through CompareAndSwapRoom.
type Storage interface {
	// Room session operations
	SaveRoom(ctx context.Context, room *model.RoomSession) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.RoomSession, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// CompareAndSwapRoom writes room only if the stored session still
	// carries room.Version; on success the stored version is
	// room.Version+1. Returns model.ErrVersionConflict when another
	// writer got there first and model.ErrRoomNotFound when the
	// session was deleted out from under the caller.
	CompareAndSwapRoom(ctx context.Context, room *model.RoomSession) error

	// Reverse index from connection id to room code, maintained on
	// every join/leave so disconnect handling never scans the store
	SetConnectionRoom(ctx context.Context, id model.ConnectionID, code model.RoomCode) error
	GetConnectionRoom(ctx context.Context, id model.ConnectionID) (model.RoomCode, error)
	DeleteConnectionRoom(ctx context.Context, id model.ConnectionID) error
}
