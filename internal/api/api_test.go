package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/api/apierr"
	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/dependencies/mocks"
	"github.com/mcoot/triviaduel/internal/quiz"
	"github.com/mcoot/triviaduel/internal/session"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	"github.com/mcoot/triviaduel/internal/testutil"
	"github.com/mcoot/triviaduel/internal/ws"
)

type APISuite struct {
	suite.Suite
	coordinator *session.Coordinator
	random      *mocks.MockRandom
	server      *httptest.Server
	ctx         context.Context
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	logger := testutil.NopLogger()
	hub := ws.NewHub(logger)
	s.random = mocks.NewMockRandom()
	s.coordinator = session.NewCoordinator(
		memory.New(),
		quiz.New(),
		hub,
		mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		s.random,
		session.Config{},
		logger,
	)
	s.server = httptest.NewServer(NewRouter(RouterConfig{
		Logger:        logger,
		Coordinator:   s.coordinator,
		SocketHandler: ws.NewHandler(hub, s.coordinator, logger),
	}))
	s.ctx = context.Background()
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) post(path string) *http.Response {
	resp, err := http.Post(s.server.URL+path, "application/json", nil)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) decode(resp *http.Response, into any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(into))
}

func (s *APISuite) TestHealth() {
	resp := s.get("/api/health")
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("ok", body["status"])
}

func (s *APISuite) TestCreateRoom() {
	s.random.QueueString("abcd1234")

	resp := s.post("/api/create-room")
	s.Equal(http.StatusCreated, resp.StatusCode)

	var body response.RoomCreated
	s.decode(resp, &body)
	s.Equal("abcd1234", body.RoomID)

	exists, err := s.coordinator.RoomExists(s.ctx, "abcd1234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *APISuite) TestJoinRoomProbeUnknownRoom() {
	resp := s.get("/api/join-room/missing0")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	var body apierr.ErrorResponse
	s.decode(resp, &body)
	s.Equal(apierr.CodeRoomNotFound, body.Error.Code)
}

func (s *APISuite) TestJoinRoomProbeOpenRoom() {
	s.random.QueueString("abcd1234")
	_, err := s.coordinator.CreateRoom(s.ctx, "")
	s.Require().NoError(err)

	resp := s.get("/api/join-room/abcd1234")
	s.Equal(http.StatusOK, resp.StatusCode)

	var body response.RoomJoinable
	s.decode(resp, &body)
	s.Contains(body.Message, "abcd1234")
}

func (s *APISuite) TestJoinRoomProbeFullRoom() {
	room, err := s.coordinator.CreateRoom(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.Require().NoError(s.coordinator.Join(s.ctx, room.Code, "conn-alice", "Alice", true))
	s.Require().NoError(s.coordinator.Join(s.ctx, room.Code, "conn-bob", "Bob", false))

	resp := s.get("/api/join-room/duel0001")
	s.Equal(http.StatusConflict, resp.StatusCode)

	var body apierr.ErrorResponse
	s.decode(resp, &body)
	s.Equal(apierr.CodeRoomFull, body.Error.Code)
}

func (s *APISuite) TestGetRoomOmitsQuestions() {
	room, err := s.coordinator.CreateRoom(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.Require().NoError(s.coordinator.Join(s.ctx, room.Code, "conn-alice", "Alice", true))

	resp := s.get("/api/rooms/duel0001")
	s.Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var raw map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(data, &raw))
	s.NotContains(raw, "questions")

	var body response.Room
	s.Require().NoError(json.Unmarshal(data, &body))
	s.Equal("duel0001", body.RoomID)
	s.Len(body.Players, 1)
	s.False(body.QuizStarted)
	s.Equal(5, body.TotalQuestions)
}

func (s *APISuite) TestGetUnknownRoom() {
	resp := s.get("/api/rooms/missing0")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

