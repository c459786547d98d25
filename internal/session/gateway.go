package session

import "github.com/mcoot/triviaduel/internal/model"

// Gateway is the broadcast fan-out the coordinator notifies. The
// implementation must deliver events to every member of a room with
// per-sender ordering preserved.
type Gateway interface {
	JoinRoom(id model.ConnectionID, code model.RoomCode)
	LeaveRoom(id model.ConnectionID, code model.RoomCode)
	EmitToRoom(code model.RoomCode, event model.EventName, payload any)
	EmitToConnection(id model.ConnectionID, event model.EventName, payload any)
}
