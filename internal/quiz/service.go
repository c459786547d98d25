package quiz

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/mcoot/triviaduel/internal/model"
)

// Service provides the question bank for duels. The bank itself is
// immutable once loaded; every room takes its own deep copy via Draw so
// per-room answered-set mutation never leaks between rooms.
type Service struct {
	mu        sync.RWMutex
	questions []model.Question
}

// New creates a quiz service preloaded with the built-in bank
func New() *Service {
	return &Service{
		questions: defaultBank(),
	}
}

// LoadFromFile replaces the bank with questions from a JSON file
// (an array of {question, options, correctAnswerIndex} objects)
func (s *Service) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return err
	}
	return s.LoadQuestions(questions)
}

// LoadQuestions replaces the bank directly (useful for testing)
func (s *Service) LoadQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return model.ErrQuestionSetEmpty
	}
	for _, q := range questions {
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return model.ErrInvalidOption
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
	return nil
}

// Draw returns a fresh deep copy of the question sequence for one room
func (s *Service) Draw() []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drawn := make([]model.Question, len(s.questions))
	for i, q := range s.questions {
		drawn[i] = q.Clone()
	}
	return drawn
}

// Count returns the number of questions in the bank
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

func defaultBank() []model.Question {
	return []model.Question{
		{
			Text:               "What is the capital of France?",
			Options:            []string{"Berlin", "Madrid", "Paris", "Rome"},
			CorrectOptionIndex: 2,
		},
		{
			Text:               "Which planet is known as the Red Planet?",
			Options:            []string{"Earth", "Mars", "Jupiter", "Venus"},
			CorrectOptionIndex: 1,
		},
		{
			Text:               "What is 2 + 2?",
			Options:            []string{"3", "4", "5", "6"},
			CorrectOptionIndex: 1,
		},
		{
			Text:               "Who painted the Mona Lisa?",
			Options:            []string{"Vincent van Gogh", "Pablo Picasso", "Leonardo da Vinci", "Claude Monet"},
			CorrectOptionIndex: 2,
		},
		{
			Text:               "What is the largest ocean on Earth?",
			Options:            []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"},
			CorrectOptionIndex: 3,
		},
	}
}
