package model

// Question is one multiple-choice quiz item. AnsweredBy accumulates the
// players who have submitted an answer for it; it only grows while the
// question is live and is frozen once the room advances past it.
type Question struct {
	Text               string         `json:"question"`
	Options            []string       `json:"options"`
	CorrectOptionIndex int            `json:"correctAnswerIndex"`
	AnsweredBy         []ConnectionID `json:"answeredBy,omitempty"`
}

// HasAnswered reports whether the player has already answered this question
func (q *Question) HasAnswered(id ConnectionID) bool {
	for _, a := range q.AnsweredBy {
		if a == id {
			return true
		}
	}
	return false
}

// RecordAnswer adds the player to the answered set. Returns false if the
// player was already recorded - the de-duplication that prevents
// double-scoring.
func (q *Question) RecordAnswer(id ConnectionID) bool {
	if q.HasAnswered(id) {
		return false
	}
	q.AnsweredBy = append(q.AnsweredBy, id)
	return true
}

// Clone returns a deep copy of the question with a fresh answered set
func (q Question) Clone() Question {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return Question{
		Text:               q.Text,
		Options:            options,
		CorrectOptionIndex: q.CorrectOptionIndex,
	}
}
