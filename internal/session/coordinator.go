package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
	"github.com/mcoot/triviaduel/internal/dependencies/random"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/quiz"
	"github.com/mcoot/triviaduel/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 8
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

	// DefaultAdvanceDelay is the pause between the last answer and the
	// next question, so both players see the score feedback
	DefaultAdvanceDelay = 2 * time.Second

	// casMaxRetries bounds the compare-and-swap retry loop for writes
	// racing another process
	casMaxRetries = 5
)

// Config holds coordinator settings
type Config struct {
	// AdvanceDelay overrides the question-advance pause (tests use a
	// short one); zero means DefaultAdvanceDelay
	AdvanceDelay time.Duration
}

// Coordinator drives room sessions through their lifecycle: roster
// changes, quiz start, answer collection, scoring, and question-advance
// timing. Mutations to one room are serialized by a per-room mutex and
// written through compare-and-swap so concurrent handler invocations
// (including ones in other processes) never lose state.
type Coordinator struct {
	storage storage.Storage
	quiz    *quiz.Service
	gateway Gateway
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	advanceDelay time.Duration
	advances     *advanceScheduler

	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

// NewCoordinator creates a new session coordinator
func NewCoordinator(
	store storage.Storage,
	quizService *quiz.Service,
	gateway Gateway,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Coordinator {
	delay := cfg.AdvanceDelay
	if delay == 0 {
		delay = DefaultAdvanceDelay
	}
	return &Coordinator{
		storage:      store,
		quiz:         quizService,
		gateway:      gateway,
		clock:        clk,
		random:       rnd,
		logger:       logger.With(slog.String("component", "session")),
		advanceDelay: delay,
		advances:     newAdvanceScheduler(clk),
		locks:        make(map[model.RoomCode]*sync.Mutex),
	}
}

// lockRoom serializes all in-process mutation and broadcasting for one
// room code. Returns the unlock func.
func (c *Coordinator) lockRoom(code model.RoomCode) func() {
	c.mu.Lock()
	l, ok := c.locks[code]
	if !ok {
		l = &sync.Mutex{}
		c.locks[code] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// dropLock discards the per-room mutex entry once the room is gone
func (c *Coordinator) dropLock(code model.RoomCode) {
	c.mu.Lock()
	delete(c.locks, code)
	c.mu.Unlock()
}

// CreateRoom allocates a fresh session with its own question snapshot.
// When code is empty a new one is generated; a supplied code must not
// collide with a live room.
func (c *Coordinator) CreateRoom(ctx context.Context, code model.RoomCode) (*model.RoomSession, error) {
	if code == "" {
		for {
			code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
			exists, err := c.storage.RoomExists(ctx, code)
			if err != nil {
				return nil, err
			}
			if !exists {
				break
			}
		}
	} else {
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrRoomExists
		}
	}

	now := c.clock.Now()
	room := &model.RoomSession{
		Code:                 code,
		RoomID:               uuid.NewString(),
		Players:              []model.Player{},
		Scores:               make(map[model.ConnectionID]int),
		Questions:            c.quiz.Draw(),
		CurrentQuestionIndex: 0,
		QuizStarted:          false,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.Int("questions", len(room.Questions)),
	)
	return room, nil
}

// RoomExists probes for a live session without touching it
func (c *Coordinator) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	return c.storage.RoomExists(ctx, code)
}

// GetRoom retrieves a session by code
func (c *Coordinator) GetRoom(ctx context.Context, code model.RoomCode) (*model.RoomSession, error) {
	return c.storage.GetRoom(ctx, code)
}

// Join seats a player in a room. The creator joins implicitly ready;
// an opponent joins unready and confirms with MarkReady. On success the
// connection is subscribed to the room and the roster is broadcast to
// every member including the joiner.
func (c *Coordinator) Join(ctx context.Context, code model.RoomCode, id model.ConnectionID, nickname string, isCreator bool) error {
	unlock := c.lockRoom(code)
	defer unlock()

	room, err := c.mutateRoom(ctx, code, func(room *model.RoomSession) error {
		if room.GetPlayer(id) != nil {
			return model.ErrAlreadyJoined
		}
		if room.IsFull() {
			return model.ErrRoomFull
		}

		room.Players = append(room.Players, model.Player{
			ID:       id,
			Nickname: nickname,
			Ready:    isCreator,
		})
		room.Scores[id] = 0
		if isCreator && room.GameCreator == "" {
			room.GameCreator = id
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := c.storage.SetConnectionRoom(ctx, id, code); err != nil {
		c.logger.Error("failed to index connection",
			slog.String("room", string(code)),
			slog.String("connection", string(id)),
			slog.String("error", err.Error()),
		)
	}
	c.gateway.JoinRoom(id, code)

	c.logger.Info("player joined",
		slog.String("room", string(code)),
		slog.String("connection", string(id)),
		slog.String("nickname", nickname),
		slog.Bool("creator", isCreator),
		slog.Int("players", len(room.Players)),
	)

	c.gateway.EmitToRoom(code, model.EventPlayerJoined, room.Players)
	return nil
}

// MarkReady flags a seated player as ready. Missing rooms or players
// are a silent no-op so replayed events are harmless.
func (c *Coordinator) MarkReady(ctx context.Context, code model.RoomCode, id model.ConnectionID) error {
	unlock := c.lockRoom(code)
	defer unlock()

	room, err := c.mutateRoom(ctx, code, func(room *model.RoomSession) error {
		p := room.GetPlayer(id)
		if p == nil {
			return model.ErrPlayerNotFound
		}
		p.Ready = true
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.gateway.EmitToRoom(code, model.EventPlayerUpdate, room.Players)
	return nil
}

// Start flips the quiz to started, exactly once. The duel never
// auto-starts at two seats: every seated player must be ready, and only
// the recorded creator may pull the trigger. Anything else is a silent
// no-op, as is a start for a missing or already-started room.
func (c *Coordinator) Start(ctx context.Context, code model.RoomCode, id model.ConnectionID) error {
	unlock := c.lockRoom(code)
	defer unlock()

	room, err := c.mutateRoom(ctx, code, func(room *model.RoomSession) error {
		if room.QuizStarted {
			return errSkipStart
		}
		if room.GameCreator != "" && room.GameCreator != id {
			return errSkipStart
		}
		if !room.AllPlayersReady() {
			return errSkipStart
		}
		room.QuizStarted = true
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, errSkipStart) {
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("quiz started",
		slog.String("room", string(code)),
		slog.Int("players", len(room.Players)),
		slog.Int("questions", len(room.Questions)),
	)

	c.gateway.EmitToRoom(code, model.EventStartQuiz, model.StartQuizPayload{
		Players:         room.Players,
		CurrentQuestion: model.ViewOfQuestion(room.CurrentQuestion()),
		TotalQuestions:  len(room.Questions),
	})
	return nil
}

// errSkipStart aborts a start mutation without surfacing an error
var errSkipStart = errors.New("start conditions not met")

// errSkipAnswer aborts an answer mutation without surfacing an error
var errSkipAnswer = errors.New("answer dropped")

// SubmitAnswer records a player's answer to the live question. Answers
// before start, for unknown rooms, or with an out-of-range option are
// dropped without error - clients shouldn't send them but the
// coordinator stays defensive. A player's first answer is the one that
// counts: it lands in the question's answered set, and scores a point
// only when correct, so replays can never double-score.
func (c *Coordinator) SubmitAnswer(ctx context.Context, code model.RoomCode, id model.ConnectionID, optionIndex int) error {
	unlock := c.lockRoom(code)
	defer unlock()

	var scored bool
	room, err := c.mutateRoom(ctx, code, func(room *model.RoomSession) error {
		scored = false
		if !room.QuizStarted {
			return errSkipAnswer
		}
		q := room.CurrentQuestion()
		if q == nil {
			return errSkipAnswer
		}
		if optionIndex < 0 || optionIndex >= len(q.Options) {
			return errSkipAnswer
		}
		if room.GetPlayer(id) == nil {
			return errSkipAnswer
		}

		if q.RecordAnswer(id) && optionIndex == q.CorrectOptionIndex {
			room.Scores[id]++
			scored = true
		}
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, errSkipAnswer) {
		return nil
	}
	if err != nil {
		return err
	}

	if scored {
		c.logger.Info("answer scored",
			slog.String("room", string(code)),
			slog.String("connection", string(id)),
			slog.Int("score", room.Scores[id]),
		)
	}

	// Live score delta lands before the question turns over
	c.gateway.EmitToRoom(code, model.EventUpdateScore, model.ScoresByConnection(room.Scores))

	if room.AllSeatedAnswered() {
		c.scheduleAdvance(code, room.CurrentQuestionIndex)
	}
	return nil
}

// mutateRoom runs fn against the current session state and writes the
// result back with compare-and-swap, retrying when another process won
// the write race. fn errors abort without writing.
func (c *Coordinator) mutateRoom(ctx context.Context, code model.RoomCode, fn func(*model.RoomSession) error) (*model.RoomSession, error) {
	for attempt := 0; ; attempt++ {
		room, err := c.storage.GetRoom(ctx, code)
		if err != nil {
			return nil, err
		}

		if err := fn(room); err != nil {
			return nil, err
		}
		room.UpdatedAt = c.clock.Now()

		err = c.storage.CompareAndSwapRoom(ctx, room)
		if err == nil {
			return room, nil
		}
		if errors.Is(err, model.ErrVersionConflict) && attempt < casMaxRetries {
			continue
		}
		return nil, err
	}
}

// deleteRoom tears a session down: pending advances cancelled, index
// entries dropped, gateway membership cleared. Broadcasting (if any)
// must happen before calling this so game-over is the room's last event.
func (c *Coordinator) deleteRoom(ctx context.Context, room *model.RoomSession) {
	c.advances.CancelRoom(room.Code)

	if err := c.storage.DeleteRoom(ctx, room.Code); err != nil {
		c.logger.Error("failed to delete room",
			slog.String("room", string(room.Code)),
			slog.String("error", err.Error()),
		)
	}
	for _, p := range room.Players {
		_ = c.storage.DeleteConnectionRoom(ctx, p.ID)
		c.gateway.LeaveRoom(p.ID, room.Code)
	}
	c.dropLock(room.Code)

	c.logger.Info("room deleted", slog.String("room", string(room.Code)))
}
