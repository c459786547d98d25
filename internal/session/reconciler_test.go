package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/dependencies/mocks"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/quiz"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	"github.com/mcoot/triviaduel/internal/testutil"
)

type ReconcilerSuite struct {
	suite.Suite
	storage     *memory.Storage
	gateway     *fakeGateway
	clock       *mocks.MockClock
	coordinator *Coordinator
	ctx         context.Context
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.storage = memory.New()
	s.gateway = newFakeGateway()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.coordinator = NewCoordinator(
		s.storage, quiz.New(), s.gateway, s.clock, mocks.NewMockRandom(), Config{}, testutil.NopLogger(),
	)
	s.ctx = context.Background()
}

func (s *ReconcilerSuite) seatPlayers(started bool) model.RoomCode {
	room, err := s.coordinator.CreateRoom(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.Require().NoError(s.coordinator.Join(s.ctx, room.Code, "conn-alice", "Alice", true))
	s.Require().NoError(s.coordinator.Join(s.ctx, room.Code, "conn-bob", "Bob", false))
	if started {
		s.Require().NoError(s.coordinator.MarkReady(s.ctx, room.Code, "conn-bob"))
		s.Require().NoError(s.coordinator.Start(s.ctx, room.Code, "conn-alice"))
	}
	return room.Code
}

func (s *ReconcilerSuite) TestUnknownConnectionIsNoop() {
	count := len(s.gateway.Events())

	s.NoError(s.coordinator.Disconnect(s.ctx, "conn-stranger"))
	s.Len(s.gateway.Events(), count)
}

func (s *ReconcilerSuite) TestPreQuizDisconnectKeepsRoomOpen() {
	code := s.seatPlayers(false)

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))

	room, err := s.storage.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	s.Require().Len(room.Players, 1)
	s.Equal(model.ConnectionID("conn-alice"), room.Players[0].ID)

	// Bob's seat is fully released: score entry and index gone
	s.NotContains(room.Scores, model.ConnectionID("conn-bob"))
	_, err = s.storage.GetConnectionRoom(s.ctx, "conn-bob")
	s.ErrorIs(err, model.ErrConnectionNotIndexed)

	events := s.gateway.EventsNamed(model.EventPlayerLeft)
	s.Require().Len(events, 1)
	payload, ok := events[0].Payload.(model.PlayerLeftPayload)
	s.Require().True(ok)
	s.Equal("Bob", payload.Nickname)
	s.Len(payload.Players, 1)
}

func (s *ReconcilerSuite) TestFreedSeatCanBeRetaken() {
	code := s.seatPlayers(false)
	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))

	s.NoError(s.coordinator.Join(s.ctx, code, "conn-carol", "Carol", false))

	room, _ := s.storage.GetRoom(s.ctx, code)
	s.Len(room.Players, 2)
}

func (s *ReconcilerSuite) TestLastPreQuizDisconnectDeletesRoomSilently() {
	code := s.seatPlayers(false)
	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))
	count := len(s.gateway.Events())

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-alice"))

	_, err := s.storage.GetRoom(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Len(s.gateway.Events(), count)
}

func (s *ReconcilerSuite) TestMidQuizDisconnectEndsGame() {
	code := s.seatPlayers(true)

	// Alice 2, Bob 1 going into the drop
	room, _ := s.storage.GetRoom(s.ctx, code)
	room.Scores["conn-alice"] = 2
	room.Scores["conn-bob"] = 1
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))

	overs := s.gateway.EventsNamed(model.EventGameOver)
	s.Require().Len(overs, 1)
	payload, ok := overs[0].Payload.(model.GameOverPayload)
	s.Require().True(ok)
	s.Equal(2, payload.Scores["conn-alice"])
	s.Equal(1, payload.Scores["conn-bob"])
	s.Contains(payload.Message, "Bob")

	s.Equal(model.EventGameOver, s.gateway.LastEvent().Event)
	_, err := s.storage.GetRoom(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ReconcilerSuite) TestMidQuizDisconnectCancelsPendingAdvance() {
	code := s.seatPlayers(true)
	room, _ := s.storage.GetRoom(s.ctx, code)
	correct := room.CurrentQuestion().CorrectOptionIndex

	_ = s.coordinator.SubmitAnswer(s.ctx, code, "conn-alice", correct)
	_ = s.coordinator.SubmitAnswer(s.ctx, code, "conn-bob", correct)
	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))
	count := len(s.gateway.Events())

	s.clock.Advance(5 * time.Second)

	s.Len(s.gateway.Events(), count)
	s.Empty(s.gateway.EventsNamed(model.EventNextQuestion))
}

func (s *ReconcilerSuite) TestDoubleDisconnectIsNoop() {
	s.seatPlayers(true)

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))
	count := len(s.gateway.Events())

	s.NoError(s.coordinator.Disconnect(s.ctx, "conn-bob"))
	s.Len(s.gateway.Events(), count)
}
