package model

// EventName identifies a broadcast event on the socket surface
type EventName string

// Outbound events
const (
	EventPlayerJoined EventName = "player-joined"
	EventPlayerUpdate EventName = "player-update"
	EventPlayerLeft   EventName = "player-left"
	EventRoomNotFound EventName = "room-not-found"
	EventRoomFull     EventName = "room-full"
	EventStartQuiz    EventName = "start-quiz"
	EventNextQuestion EventName = "next-question"
	EventUpdateScore  EventName = "update-score"
	EventGameOver     EventName = "game-over"
)

// Inbound events
const (
	EventJoinDuel     EventName = "join-duel"
	EventPlayerReady  EventName = "player-ready"
	EventStartGame    EventName = "start-game"
	EventSubmitAnswer EventName = "submit-answer"
)

// QuestionView is the question shape sent to clients. The answered set
// stays server-side; the correct index is included so clients can show
// answer feedback, matching the original wire format.
type QuestionView struct {
	Text               string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctAnswerIndex"`
}

// ViewOfQuestion converts a Question to its client-facing shape
func ViewOfQuestion(q *Question) QuestionView {
	return QuestionView{
		Text:               q.Text,
		Options:            q.Options,
		CorrectOptionIndex: q.CorrectOptionIndex,
	}
}

// ScoresByConnection converts the score map to string keys for JSON payloads
func ScoresByConnection(scores map[ConnectionID]int) map[string]int {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[string(id)] = s
	}
	return out
}

// StartQuizPayload accompanies the start-quiz event
type StartQuizPayload struct {
	Players         []Player     `json:"players"`
	CurrentQuestion QuestionView `json:"currentQuestion"`
	TotalQuestions  int          `json:"totalQuestions"`
}

// NextQuestionPayload accompanies the next-question event
type NextQuestionPayload struct {
	CurrentQuestion      QuestionView   `json:"currentQuestion"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Scores               map[string]int `json:"scores"`
}

// GameOverPayload accompanies the game-over event. Message is set when
// the duel ended because a player left.
type GameOverPayload struct {
	Scores  map[string]int `json:"scores"`
	Players []Player       `json:"players"`
	Message string         `json:"message,omitempty"`
}

// PlayerLeftPayload accompanies the player-left event
type PlayerLeftPayload struct {
	PlayerID ConnectionID `json:"playerId"`
	Nickname string       `json:"nickname"`
	Players  []Player     `json:"players"`
}
