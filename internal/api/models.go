package api

import (
	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// UserResponse is the public view of a user. Password material is never
// included.
type UserResponse struct {
	ID           uuid.UUID                    `json:"id"`
	Username     string                       `json:"username"`
	Email        string                       `json:"email"`
	Role         domain.Role                  `json:"role"`
	Life         int                          `json:"life"`
	TotalPoints  int                          `json:"total_points"`
	AvatarURL    string                       `json:"avatar_url,omitempty"`
	Notification bool                         `json:"notification"`
	NotifyEvery  domain.NotificationFrequency `json:"challenge_notification"`
}

// NewUserResponse converts a domain user into its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		Life:         user.Life,
		TotalPoints:  user.TotalPoints,
		AvatarURL:    user.AvatarURL,
		Notification: user.Notification,
		NotifyEvery:  user.NotifyEvery,
	}
}

// UpdateUserRequest defines the payload for profile updates. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Username     *string                       `json:"username,omitempty"     validate:"omitempty,min=3,max=30"`
	AvatarURL    *string                       `json:"avatar_url,omitempty"`
	Notification *bool                         `json:"notification,omitempty"`
	NotifyEvery  *domain.NotificationFrequency `json:"challenge_notification,omitempty" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
}

// CreateStackRequest defines the payload for stack creation.
type CreateStackRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateStackRequest defines the payload for stack updates. Nil fields are
// left unchanged. Points are an aggregate maintained by theme mutations and
// cannot be set directly.
type UpdateStackRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// StackResponse is the public view of a stack, optionally with its themes.
type StackResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Points      int             `json:"points"`
	Themes      []*domain.Theme `json:"themes,omitempty"`
}

// NewStackResponse converts a domain stack into its public view.
func NewStackResponse(stack *domain.Stack, themes []*domain.Theme) StackResponse {
	return StackResponse{
		ID:          stack.ID,
		Name:        stack.Name,
		Description: stack.Description,
		Points:      stack.Points,
		Themes:      themes,
	}
}

// StackListResponse wraps a page of stacks with the total count.
type StackListResponse struct {
	Stacks []*domain.Stack `json:"stacks"`
	Total  int             `json:"total"`
}

// CreateThemeRequest defines the payload for theme creation. An omitted
// order means the theme is appended after the stack's current themes.
type CreateThemeRequest struct {
	Name        string       `json:"name"        validate:"required,min=1,max=100"`
	Level       domain.Level `json:"level"       validate:"omitempty,oneof=DEBUTANT INTERMEDIATE ADVANCED"`
	Description string       `json:"description" validate:"max=1000"`
	Points      int          `json:"points"      validate:"gte=0"`
	Order       int          `json:"order"       validate:"gte=0"`
}

// UpdateThemeRequest defines the payload for theme updates. Nil fields are
// left unchanged. Points are fixed at creation.
type UpdateThemeRequest struct {
	Name        *string       `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Level       *domain.Level `json:"level,omitempty"       validate:"omitempty,oneof=DEBUTANT INTERMEDIATE ADVANCED"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=1000"`
	Order       *int          `json:"order,omitempty"       validate:"omitempty,gte=0"`
}

// ThemeListResponse wraps a page of themes with the total count.
type ThemeListResponse struct {
	Themes []*domain.Theme `json:"themes"`
	Total  int             `json:"total"`
}

// CreateProgressStackRequest defines the payload for linking a user to a stack.
type CreateProgressStackRequest struct {
	UserID  uuid.UUID `json:"user_id"  validate:"required"`
	StackID uuid.UUID `json:"stack_id" validate:"required"`
}

// CreateProgressStackResponse carries the new progress stack's ID.
type CreateProgressStackResponse struct {
	ID uuid.UUID `json:"id"`
}

// CreateProgressThemeRequest defines the payload for linking a theme to a
// tracked stack.
type CreateProgressThemeRequest struct {
	ThemeID         uuid.UUID `json:"theme_id"          validate:"required"`
	ProgressStackID uuid.UUID `json:"progress_stack_id" validate:"required"`
}

// RecordProgressRequest defines the payload for recording a point delta.
// The delta may be negative; totals are not clamped.
type RecordProgressRequest struct {
	Points int `json:"points"`
}

// AskAssistantRequest defines the payload for the study assistant endpoint.
type AskAssistantRequest struct {
	Question string     `json:"question" validate:"required,min=1,max=2000"`
	ThemeID  *uuid.UUID `json:"theme_id,omitempty"`
}

// AskAssistantResponse carries the assistant's answer.
type AskAssistantResponse struct {
	Answer string `json:"answer"`
}

// GenerateQuizRequest defines the payload for the quiz generation endpoint.
type GenerateQuizRequest struct {
	ThemeID uuid.UUID `json:"theme_id" validate:"required"`
}

// GenerateQuizResponse carries the generated challenge question.
type GenerateQuizResponse struct {
	ThemeID  uuid.UUID `json:"theme_id"`
	Question string    `json:"question"`
}

// GradeAnswerRequest defines the payload for the answer grading endpoint.
// When ProgressThemeID is set, the graded points are recorded against that
// progress theme.
type GradeAnswerRequest struct {
	ThemeID         uuid.UUID  `json:"theme_id" validate:"required"`
	Question        string     `json:"question" validate:"required,max=2000"`
	Answer          string     `json:"answer"   validate:"required,max=4000"`
	ProgressThemeID *uuid.UUID `json:"progress_theme_id,omitempty"`
}

// GradeAnswerResponse carries the assistant's assessment.
type GradeAnswerResponse struct {
	Correct  bool   `json:"correct"`
	Points   int    `json:"points"`
	Feedback string `json:"feedback,omitempty"`
	Recorded bool   `json:"recorded"`
}
