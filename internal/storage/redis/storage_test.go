package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/model"
)

type RedisStorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *goredis.Client
	storage *Storage
	ctx     context.Context
}

func TestRedisStorageSuite(t *testing.T) {
	suite.Run(t, new(RedisStorageSuite))
}

func (s *RedisStorageSuite) SetupTest() {
	mini, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mini
	s.client = goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	s.storage = NewWithClient(s.client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *RedisStorageSuite) TearDownTest() {
	_ = s.client.Close()
	s.mini.Close()
}

func (s *RedisStorageSuite) room(code model.RoomCode) *model.RoomSession {
	return &model.RoomSession{
		Code:   code,
		RoomID: "room-" + string(code),
		Players: []model.Player{
			{ID: "conn-alice", Nickname: "Alice", Ready: true},
			{ID: "conn-bob", Nickname: "Bob"},
		},
		Scores: map[model.ConnectionID]int{"conn-alice": 0, "conn-bob": 0},
		Questions: []model.Question{
			{Text: "q1", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 2},
		},
		QuizStarted: true,
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *RedisStorageSuite) TestGetMissingRoom() {
	_, err := s.storage.GetRoom(s.ctx, "missing0")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RedisStorageSuite) TestRoomRoundTrip() {
	room := s.room("duel0001")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	s.Equal(int64(1), room.Version)

	got, err := s.storage.GetRoom(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.Equal(room.RoomID, got.RoomID)
	s.Equal(room.Players, got.Players)
	s.Equal(room.Scores, got.Scores)
	s.True(got.QuizStarted)
	s.Equal(int64(1), got.Version)
}

func (s *RedisStorageSuite) TestSaveAppliesTTL() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("duel0001")))
	s.Greater(s.mini.TTL(roomKey("duel0001")), time.Duration(0))
}

func (s *RedisStorageSuite) TestRoomExpiry() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("duel0001")))

	s.mini.FastForward(DefaultConfig().RoomTTL + time.Minute)

	_, err := s.storage.GetRoom(s.ctx, "duel0001")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RedisStorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("duel0001")))
	exists, err = s.storage.RoomExists(s.ctx, "duel0001")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RedisStorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("duel0001")))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "duel0001"))

	_, err := s.storage.GetRoom(s.ctx, "duel0001")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RedisStorageSuite) TestCompareAndSwapHappyPath() {
	room := s.room("duel0001")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	room.Scores["conn-alice"] = 2
	s.Require().NoError(s.storage.CompareAndSwapRoom(s.ctx, room))
	s.Equal(int64(2), room.Version)

	got, _ := s.storage.GetRoom(s.ctx, "duel0001")
	s.Equal(2, got.Scores["conn-alice"])
	s.Equal(int64(2), got.Version)
}

func (s *RedisStorageSuite) TestCompareAndSwapMissingRoom() {
	s.ErrorIs(s.storage.CompareAndSwapRoom(s.ctx, s.room("duel0001")), model.ErrRoomNotFound)
}

func (s *RedisStorageSuite) TestCompareAndSwapStaleVersion() {
	room := s.room("duel0001")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	other, err := s.storage.GetRoom(s.ctx, "duel0001")
	s.Require().NoError(err)
	other.Scores["conn-bob"] = 1
	s.Require().NoError(s.storage.CompareAndSwapRoom(s.ctx, other))

	room.Scores["conn-bob"] = 7
	s.ErrorIs(s.storage.CompareAndSwapRoom(s.ctx, room), model.ErrVersionConflict)

	got, _ := s.storage.GetRoom(s.ctx, "duel0001")
	s.Equal(1, got.Scores["conn-bob"])
}

func (s *RedisStorageSuite) TestConnectionIndexRoundTrip() {
	_, err := s.storage.GetConnectionRoom(s.ctx, "conn-alice")
	s.ErrorIs(err, model.ErrConnectionNotIndexed)

	s.Require().NoError(s.storage.SetConnectionRoom(s.ctx, "conn-alice", "duel0001"))

	code, err := s.storage.GetConnectionRoom(s.ctx, "conn-alice")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("duel0001"), code)

	s.Require().NoError(s.storage.DeleteConnectionRoom(s.ctx, "conn-alice"))
	_, err = s.storage.GetConnectionRoom(s.ctx, "conn-alice")
	s.ErrorIs(err, model.ErrConnectionNotIndexed)
}

func (s *RedisStorageSuite) TestConnectionIndexExpiry() {
	s.Require().NoError(s.storage.SetConnectionRoom(s.ctx, "conn-alice", "duel0001"))

	s.mini.FastForward(DefaultConfig().ConnectionTTL + time.Minute)

	_, err := s.storage.GetConnectionRoom(s.ctx, "conn-alice")
	s.ErrorIs(err, model.ErrConnectionNotIndexed)
}
