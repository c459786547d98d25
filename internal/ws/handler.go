package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/triviaduel/internal/model"
)

// Session is the slice of the coordinator the socket surface drives
type Session interface {
	Join(ctx context.Context, code model.RoomCode, id model.ConnectionID, nickname string, isCreator bool) error
	MarkReady(ctx context.Context, code model.RoomCode, id model.ConnectionID) error
	Start(ctx context.Context, code model.RoomCode, id model.ConnectionID) error
	SubmitAnswer(ctx context.Context, code model.RoomCode, id model.ConnectionID, optionIndex int) error
	Disconnect(ctx context.Context, id model.ConnectionID) error
}

// Handler upgrades duel connections and pumps their frames into the
// session coordinator. Each connection gets a fresh identifier which is
// the player's identity for the lifetime of the socket.
type Handler struct {
	hub      *Hub
	session  Session
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the socket endpoint handler
func NewHandler(hub *Hub, session Session, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		session: session,
		logger:  logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The duel client may be served from a different origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnectionID(uuid.NewString())
	client := newClient(id, conn)
	h.hub.Register(client)
	go client.writePump()

	h.logger.Info("connection opened", slog.String("connection", string(id)))

	client.readPump(func(frame Frame) {
		h.dispatch(r.Context(), id, frame)
	})

	// Read loop over: reconcile room state before forgetting the client
	h.hub.Unregister(id)
	if err := h.session.Disconnect(context.Background(), id); err != nil {
		h.logger.Error("disconnect reconciliation failed",
			slog.String("connection", string(id)),
			slog.String("error", err.Error()),
		)
	}
	h.logger.Info("connection closed", slog.String("connection", string(id)))
}

// dispatch routes one inbound frame. Malformed frames are logged and
// dropped; a misbehaving client can't take the room down.
func (h *Handler) dispatch(ctx context.Context, id model.ConnectionID, frame Frame) {
	switch frame.Event {
	case model.EventJoinDuel:
		var data joinDuelData
		if !h.decode(id, frame, &data) {
			return
		}
		h.handleJoin(ctx, id, data)

	case model.EventPlayerReady:
		var data roomRefData
		if !h.decode(id, frame, &data) {
			return
		}
		if err := h.session.MarkReady(ctx, model.RoomCode(data.RoomID), id); err != nil {
			h.logEventError(id, frame.Event, err)
		}

	case model.EventStartGame:
		var data roomRefData
		if !h.decode(id, frame, &data) {
			return
		}
		if err := h.session.Start(ctx, model.RoomCode(data.RoomID), id); err != nil {
			h.logEventError(id, frame.Event, err)
		}

	case model.EventSubmitAnswer:
		var data submitAnswerData
		if !h.decode(id, frame, &data) {
			return
		}
		if err := h.session.SubmitAnswer(ctx, model.RoomCode(data.RoomID), id, data.AnswerIndex); err != nil {
			h.logEventError(id, frame.Event, err)
		}

	default:
		h.logger.Warn("unknown event",
			slog.String("connection", string(id)),
			slog.String("event", string(frame.Event)),
		)
	}
}

// handleJoin maps join rejections onto their dedicated reply events so
// the requesting client can react without tearing the socket down
func (h *Handler) handleJoin(ctx context.Context, id model.ConnectionID, data joinDuelData) {
	err := h.session.Join(ctx, model.RoomCode(data.RoomID), id, data.Nickname, data.IsCreator)
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		h.hub.EmitToConnection(id, model.EventRoomNotFound, roomErrorData{RoomID: data.RoomID})
	case errors.Is(err, model.ErrRoomFull), errors.Is(err, model.ErrAlreadyJoined):
		h.hub.EmitToConnection(id, model.EventRoomFull, roomErrorData{RoomID: data.RoomID})
	case err != nil:
		h.logEventError(id, model.EventJoinDuel, err)
	}
}

func (h *Handler) decode(id model.ConnectionID, frame Frame, into any) bool {
	if err := json.Unmarshal(frame.Data, into); err != nil {
		h.logger.Warn("malformed frame",
			slog.String("connection", string(id)),
			slog.String("event", string(frame.Event)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (h *Handler) logEventError(id model.ConnectionID, event model.EventName, err error) {
	h.logger.Error("event handling failed",
		slog.String("connection", string(id)),
		slog.String("event", string(event)),
		slog.String("error", err.Error()),
	)
}
