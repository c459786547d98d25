package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestQuestions())
}

// Test: Complete duel flow from room creation to game over
func (s *IntegrationSuite) TestCompleteDuelFlow() {
	s.app.MockRandom.QueueString("duel0001")

	// Step 1: Creator opens a room
	room, err := s.app.Coordinator.CreateRoom(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("duel0001"), room.Code)
	s.Len(room.Questions, 2)

	// Step 2: Both players take their seats
	s.Require().NoError(s.app.Coordinator.Join(s.ctx, room.Code, "conn-alice", "Alice", true))
	s.Require().NoError(s.app.Coordinator.Join(s.ctx, room.Code, "conn-bob", "Bob", false))

	// Step 3: Opponent readies up and the creator starts
	s.Require().NoError(s.app.Coordinator.MarkReady(s.ctx, room.Code, "conn-bob"))
	s.Require().NoError(s.app.Coordinator.Start(s.ctx, room.Code, "conn-alice"))

	started, err := s.app.Coordinator.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.True(started.QuizStarted)

	// Step 4: Question 1 (answer is "2"); Alice is right, Bob is wrong
	s.Require().NoError(s.app.Coordinator.SubmitAnswer(s.ctx, room.Code, "conn-alice", 1))
	s.Require().NoError(s.app.Coordinator.SubmitAnswer(s.ctx, room.Code, "conn-bob", 3))
	s.app.MockClock.Advance(2 * time.Second)

	mid, err := s.app.Coordinator.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(1, mid.CurrentQuestionIndex)
	s.Equal(1, mid.Scores["conn-alice"])
	s.Equal(0, mid.Scores["conn-bob"])

	// Step 5: Question 2 (answer is "Earth"); both are right
	s.Require().NoError(s.app.Coordinator.SubmitAnswer(s.ctx, room.Code, "conn-alice", 2))
	s.Require().NoError(s.app.Coordinator.SubmitAnswer(s.ctx, room.Code, "conn-bob", 2))
	s.app.MockClock.Advance(2 * time.Second)

	// Step 6: The room is gone once the duel completes
	_, err = s.app.Coordinator.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)

	exists, err := s.app.Coordinator.RoomExists(s.ctx, room.Code)
	s.Require().NoError(err)
	s.False(exists)
}

// Test: A mid-quiz disconnect ends the duel for the remaining player
func (s *IntegrationSuite) TestDisconnectMidQuiz() {
	room, err := s.app.Coordinator.CreateRoom(s.ctx, "duel0002")
	s.Require().NoError(err)

	s.Require().NoError(s.app.Coordinator.Join(s.ctx, room.Code, "conn-alice", "Alice", true))
	s.Require().NoError(s.app.Coordinator.Join(s.ctx, room.Code, "conn-bob", "Bob", false))
	s.Require().NoError(s.app.Coordinator.MarkReady(s.ctx, room.Code, "conn-bob"))
	s.Require().NoError(s.app.Coordinator.Start(s.ctx, room.Code, "conn-alice"))

	s.Require().NoError(s.app.Coordinator.Disconnect(s.ctx, "conn-bob"))

	_, err = s.app.Coordinator.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: Two rooms run independently
func (s *IntegrationSuite) TestConcurrentRoomsAreIsolated() {
	a, err := s.app.Coordinator.CreateRoom(s.ctx, "room000a")
	s.Require().NoError(err)
	b, err := s.app.Coordinator.CreateRoom(s.ctx, "room000b")
	s.Require().NoError(err)

	s.Require().NoError(s.app.Coordinator.Join(s.ctx, a.Code, "conn-a1", "Ada", true))
	s.Require().NoError(s.app.Coordinator.Join(s.ctx, b.Code, "conn-b1", "Bea", true))
	s.Require().NoError(s.app.Coordinator.Start(s.ctx, a.Code, "conn-a1"))

	// Room A started; room B did not
	roomA, err := s.app.Coordinator.GetRoom(s.ctx, a.Code)
	s.Require().NoError(err)
	s.True(roomA.QuizStarted)

	roomB, err := s.app.Coordinator.GetRoom(s.ctx, b.Code)
	s.Require().NoError(err)
	s.False(roomB.QuizStarted)

	// Answers in A leave B's question untouched
	s.Require().NoError(s.app.Coordinator.SubmitAnswer(s.ctx, a.Code, "conn-a1", 1))
	roomB, err = s.app.Coordinator.GetRoom(s.ctx, b.Code)
	s.Require().NoError(err)
	s.Empty(roomB.Questions[0].AnsweredBy)
}
