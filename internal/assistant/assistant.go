// Package assistant defines the boundary between the application core and
// the external language-model service that powers the study assistant.
package assistant

import (
	"context"

	"github.com/stackly/stackly-api/internal/domain"
)

// Quiz is a generated challenge question for a theme.
type Quiz struct {
	Question string `json:"question"`
}

// Grade is the assistant's assessment of a learner's answer to a quiz
// question. Points is bounded by the theme's point value.
type Grade struct {
	Correct  bool   `json:"correct"`
	Points   int    `json:"points"`
	Feedback string `json:"feedback"`
}

// Assistant answers learners' questions and runs quiz challenges.
// Implementations live behind this interface so the API layer never touches
// an LLM client directly.
type Assistant interface {
	// Ask answers a free-form question. When theme is non-nil the answer
	// is scoped to that theme's subject and level.
	//
	// Returns:
	//   - ErrEmptyQuestion if the question is blank
	//   - ErrContentBlocked if the model refused the content
	//   - ErrTransientFailure when retries were exhausted on temporary errors
	Ask(ctx context.Context, question string, theme *domain.Theme) (string, error)

	// GenerateQuiz produces a challenge question for the given theme,
	// pitched at the theme's level. The theme is required.
	GenerateQuiz(ctx context.Context, theme *domain.Theme) (*Quiz, error)

	// GradeAnswer assesses a learner's answer to a quiz question for the
	// given theme. The returned grade's points lie in [0, theme.Points];
	// an incorrect answer always grades to zero points.
	//
	// Returns ErrEmptyQuestion if the question or answer is blank.
	GradeAnswer(ctx context.Context, theme *domain.Theme, question, answer string) (*Grade, error)
}
