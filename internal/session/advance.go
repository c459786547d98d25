package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
	"github.com/mcoot/triviaduel/internal/model"
)

// advanceKey identifies one pending question advance. Keying by
// (room, question index) makes a stale timer - one that fires after the
// room moved on or died - trivially detectable.
type advanceKey struct {
	code  model.RoomCode
	index int
}

// advanceScheduler tracks the pending advance timers. At most one
// advance is ever scheduled per (room, question index).
type advanceScheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	pending map[advanceKey]clock.Timer
}

func newAdvanceScheduler(clk clock.Clock) *advanceScheduler {
	return &advanceScheduler{
		clock:   clk,
		pending: make(map[advanceKey]clock.Timer),
	}
}

// scheduleAdvance arms the advance for (code, index) after the
// coordinator's advance delay. Returns false if one is already pending
// for that key.
func (c *Coordinator) scheduleAdvance(code model.RoomCode, index int) bool {
	key := advanceKey{code: code, index: index}

	c.advances.mu.Lock()
	if _, ok := c.advances.pending[key]; ok {
		c.advances.mu.Unlock()
		return false
	}
	timer := c.clock.AfterFunc(c.advanceDelay, func() {
		c.advances.done(key)
		c.advanceQuestion(context.Background(), key)
	})
	c.advances.pending[key] = timer
	c.advances.mu.Unlock()

	c.logger.Debug("advance scheduled",
		slog.String("room", string(code)),
		slog.Int("question", index),
	)
	return true
}

// done forgets a timer that has fired
func (s *advanceScheduler) done(key advanceKey) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

// CancelRoom stops every pending advance for a room
func (s *advanceScheduler) CancelRoom(code model.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, timer := range s.pending {
		if key.code == code {
			timer.Stop()
			delete(s.pending, key)
		}
	}
}

// advanceQuestion moves the room to the next question or to game-over.
// It re-reads the session under the room lock: if the room vanished or
// already advanced past the scheduled index, the timer is stale and the
// write is discarded rather than resurrecting dead state.
func (c *Coordinator) advanceQuestion(ctx context.Context, key advanceKey) {
	unlock := c.lockRoom(key.code)
	defer unlock()

	room, err := c.mutateRoom(ctx, key.code, func(room *model.RoomSession) error {
		if !room.QuizStarted || room.CurrentQuestionIndex != key.index {
			return errStaleAdvance
		}
		room.CurrentQuestionIndex++
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, errStaleAdvance) {
		c.logger.Debug("stale advance discarded",
			slog.String("room", string(key.code)),
			slog.Int("question", key.index),
		)
		return
	}
	if err != nil {
		c.logger.Error("advance failed",
			slog.String("room", string(key.code)),
			slog.Int("question", key.index),
			slog.String("error", err.Error()),
		)
		return
	}

	if !room.IsComplete() {
		c.gateway.EmitToRoom(key.code, model.EventNextQuestion, model.NextQuestionPayload{
			CurrentQuestion:      model.ViewOfQuestion(room.CurrentQuestion()),
			CurrentQuestionIndex: room.CurrentQuestionIndex,
			Scores:               model.ScoresByConnection(room.Scores),
		})
		return
	}

	c.logger.Info("game over",
		slog.String("room", string(key.code)),
		slog.String("scores", fmt.Sprintf("%v", room.Scores)),
	)

	// game-over is the last event this room ever emits
	c.gateway.EmitToRoom(key.code, model.EventGameOver, model.GameOverPayload{
		Scores:  model.ScoresByConnection(room.Scores),
		Players: room.Players,
	})
	c.deleteRoom(ctx, room)
}

// errStaleAdvance marks a timer that outlived its question
var errStaleAdvance = errors.New("advance is stale")
