package model

import "time"

// RoomCode is the 8-character identifier players use to join a duel
type RoomCode string

// ConnectionID identifies one socket connection. It is assigned by the
// transport and is only stable for the lifetime of that connection -
// a player who reconnects gets a fresh one.
type ConnectionID string

// MaxPlayers is the fixed seat count for a duel room
const MaxPlayers = 2

// Player represents a seated participant in a room
type Player struct {
	ID       ConnectionID `json:"id"`
	Nickname string       `json:"nickname"`
	Ready    bool         `json:"ready"`
}

// RoomSession is the full state of one duel, keyed by its room code
type RoomSession struct {
	Code   RoomCode `json:"code"`
	RoomID string   `json:"roomId"` // stable identifier, never changes

	// Players in join order, capped at MaxPlayers
	Players []Player `json:"players"`

	// Scores keyed by connection id; an entry exists for every player
	// who has joined and not been explicitly purged
	Scores map[ConnectionID]int `json:"scores"`

	// Question snapshot taken at creation; AnsweredBy sets are mutated
	// in place as the duel progresses
	Questions []Question `json:"questions"`

	// CurrentQuestionIndex is in [0, len(Questions)]; == len(Questions)
	// means the duel is complete
	CurrentQuestionIndex int `json:"currentQuestionIndex"`

	// QuizStarted is monotonic - once true it never reverts
	QuizStarted bool `json:"quizStarted"`

	// GameCreator is set once by the first joiner declaring itself creator
	GameCreator ConnectionID `json:"gameCreator,omitempty"`

	// Version is incremented on every store write; compare-and-swap
	// writes fail when it doesn't match the stored value
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetPlayer returns the seated player with the given id, or nil
func (r *RoomSession) GetPlayer(id ConnectionID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// RemovePlayer removes the seated player with the given id, returning
// the removed player and whether it was present
func (r *RoomSession) RemovePlayer(id ConnectionID) (Player, bool) {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p, true
		}
	}
	return Player{}, false
}

// IsFull reports whether both seats are taken
func (r *RoomSession) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}

// AllPlayersReady reports whether every seated player has readied up
func (r *RoomSession) AllPlayersReady() bool {
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return len(r.Players) > 0
}

// CurrentQuestion returns the live question, or nil if the sequence is
// exhausted
func (r *RoomSession) CurrentQuestion() *Question {
	if r.CurrentQuestionIndex < 0 || r.CurrentQuestionIndex >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentQuestionIndex]
}

// Clone returns a deep copy of the session. Stores hand out clones so
// an in-flight mutation never aliases the stored state.
func (r *RoomSession) Clone() *RoomSession {
	out := *r
	out.Players = make([]Player, len(r.Players))
	copy(out.Players, r.Players)
	out.Scores = make(map[ConnectionID]int, len(r.Scores))
	for id, s := range r.Scores {
		out.Scores[id] = s
	}
	out.Questions = make([]Question, len(r.Questions))
	for i, q := range r.Questions {
		out.Questions[i] = q
		if q.AnsweredBy != nil {
			out.Questions[i].AnsweredBy = make([]ConnectionID, len(q.AnsweredBy))
			copy(out.Questions[i].AnsweredBy, q.AnsweredBy)
		}
		out.Questions[i].Options = make([]string, len(q.Options))
		copy(out.Questions[i].Options, q.Options)
	}
	return &out
}

// IsComplete reports whether the question sequence is exhausted
func (r *RoomSession) IsComplete() bool {
	return r.CurrentQuestionIndex >= len(r.Questions)
}

// AllSeatedAnswered reports whether every currently-seated player has
// answered the live question (or the lone seated player has)
func (r *RoomSession) AllSeatedAnswered() bool {
	q := r.CurrentQuestion()
	if q == nil || len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if !q.HasAnswered(p.ID) {
			return false
		}
	}
	return true
}
