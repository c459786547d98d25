package factory

import (
	"time"

	"github.com/mcoot/triviaduel/internal/dependencies/mocks"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/session"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	"github.com/mcoot/triviaduel/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, session.Config{}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestQuestions loads a small fixed question bank for testing
func (t *TestApp) LoadTestQuestions() error {
	return t.QuizService.LoadQuestions([]model.Question{
		{
			Text:               "What is 1 + 1?",
			Options:            []string{"1", "2", "3", "4"},
			CorrectOptionIndex: 1,
		},
		{
			Text:               "Which planet do we live on?",
			Options:            []string{"Mars", "Venus", "Earth", "Jupiter"},
			CorrectOptionIndex: 2,
		},
	})
}
