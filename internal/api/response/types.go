package response

import (
	"github.com/mcoot/triviaduel/internal/model"
)

// RoomCreated is the response for room creation
type RoomCreated struct {
	RoomID string `json:"roomId"`
}

// RoomJoinable is the response for a successful join-room probe
type RoomJoinable struct {
	Message string `json:"message"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// Room is a sanitized view of a room session. Question contents stay
// off this surface; only the socket hands questions out, to players in
// the room.
type Room struct {
	RoomID               string         `json:"roomId"`
	Players              []model.Player `json:"players"`
	QuizStarted          bool           `json:"quizStarted"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	TotalQuestions       int            `json:"totalQuestions"`
	Scores               map[string]int `json:"scores"`
}

// RoomFromModel converts a model.RoomSession to a response Room
func RoomFromModel(room *model.RoomSession) Room {
	return Room{
		RoomID:               string(room.Code),
		Players:              room.Players,
		QuizStarted:          room.QuizStarted,
		CurrentQuestionIndex: room.CurrentQuestionIndex,
		TotalQuestions:       len(room.Questions),
		Scores:               model.ScoresByConnection(room.Scores),
	}
}
