package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviaduel/internal/api/apierr"
	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/session"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	coordinator *session.Coordinator
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(coordinator *session.Coordinator) *RoomHandler {
	return &RoomHandler{coordinator: coordinator}
}

// Create handles POST /api/create-room
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	room, err := h.coordinator.CreateRoom(r.Context(), "")
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomCreated{RoomID: string(room.Code)})
}

// CheckJoinable handles GET /api/join-room/{roomId}. Clients call this
// before opening a socket so they get a clean HTTP error instead of a
// doomed connection.
func (h *RoomHandler) CheckJoinable(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["roomId"])

	room, err := h.coordinator.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if room.IsFull() {
		apierr.WriteError(w, model.ErrRoomFull)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomJoinable{
		Message: fmt.Sprintf("Room %s is open", code),
	})
}

// Get handles GET /api/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["roomId"])

	room, err := h.coordinator.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}
