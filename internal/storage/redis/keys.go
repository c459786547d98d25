package redis

import (
	"fmt"

	"github.com/mcoot/triviaduel/internal/model"
)

// Key prefix for all duel-related data
const keyPrefix = "triviaduel"

// roomKey returns the Redis key for a RoomSession
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// connectionIndexKey returns the Redis key for the connection -> room index
func connectionIndexKey(id model.ConnectionID) string {
	return fmt.Sprintf("%s:idx:conn:%s", keyPrefix, id)
}
