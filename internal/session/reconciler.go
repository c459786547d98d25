package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/triviaduel/internal/model"
)

// Disconnect repairs a room after a transport drop. The dropped
// connection carries no room code, so the room is resolved through the
// connection index rather than a store scan. Unindexed connections -
// sockets that never joined a duel, or whose room already died - are a
// silent no-op.
func (c *Coordinator) Disconnect(ctx context.Context, id model.ConnectionID) error {
	code, err := c.storage.GetConnectionRoom(ctx, id)
	if errors.Is(err, model.ErrConnectionNotIndexed) {
		return nil
	}
	if err != nil {
		return err
	}
	_ = c.storage.DeleteConnectionRoom(ctx, id)

	unlock := c.lockRoom(code)
	defer unlock()

	var departed model.Player
	room, err := c.mutateRoom(ctx, code, func(room *model.RoomSession) error {
		p, ok := room.RemovePlayer(id)
		if !ok {
			return model.ErrPlayerNotFound
		}
		departed = p

		// A pre-quiz departure purges the seat's score entry; once the
		// quiz is running the tally stays for the final broadcast
		if !room.QuizStarted {
			delete(room.Scores, id)
		}
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.gateway.LeaveRoom(id, code)

	c.logger.Info("player disconnected",
		slog.String("room", string(code)),
		slog.String("connection", string(id)),
		slog.String("nickname", departed.Nickname),
		slog.Int("remaining", len(room.Players)),
	)

	switch {
	case len(room.Players) == 0:
		// Nobody left to notify
		c.deleteRoom(ctx, room)

	case room.QuizStarted && len(room.Players) == 1:
		// A duel can't continue solo: declare the game over with the
		// scores as they stood, departed player's tally included
		c.gateway.EmitToRoom(code, model.EventGameOver, model.GameOverPayload{
			Scores:  model.ScoresByConnection(room.Scores),
			Players: room.Players,
			Message: fmt.Sprintf("%s left the game.", departed.Nickname),
		})
		c.deleteRoom(ctx, room)

	default:
		// Waiting room stays open for a replacement opponent
		c.gateway.EmitToRoom(code, model.EventPlayerLeft, model.PlayerLeftPayload{
			PlayerID: id,
			Nickname: departed.Nickname,
			Players:  room.Players,
		})
	}
	return nil
}
