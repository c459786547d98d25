package ws

import (
	"encoding/json"

	"github.com/mcoot/triviaduel/internal/model"
)

// Frame is the envelope for every socket message in both directions
type Frame struct {
	Event model.EventName `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outboundFrame carries an already-built payload out to a client
type outboundFrame struct {
	Event model.EventName `json:"event"`
	Data  any             `json:"data,omitempty"`
}

func encodeFrame(event model.EventName, payload any) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: event, Data: payload})
}

// joinDuelData is the payload of an inbound join-duel frame
type joinDuelData struct {
	RoomID    string `json:"roomId"`
	Nickname  string `json:"nickname"`
	IsCreator bool   `json:"isCreator"`
}

// roomRefData is the payload of inbound frames that only name a room
type roomRefData struct {
	RoomID string `json:"roomId"`
}

// submitAnswerData is the payload of an inbound submit-answer frame
type submitAnswerData struct {
	RoomID      string `json:"roomId"`
	AnswerIndex int    `json:"answerIndex"`
}

// roomErrorData accompanies room-not-found and room-full rejections
type roomErrorData struct {
	RoomID string `json:"roomId"`
}
