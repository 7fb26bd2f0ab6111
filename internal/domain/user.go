package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the privilege level of a user. The platform knows exactly
// two roles; ADMIN bypasses all role and ownership checks.
type Role string

// Known roles.
const (
	RoleBasic Role = "BASIC"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBasic || r == RoleAdmin
}

// NotificationFrequency controls how often a user receives challenge reminders.
type NotificationFrequency string

// Known notification frequencies.
const (
	NotifyDaily   NotificationFrequency = "DAILY"
	NotifyWeekly  NotificationFrequency = "WEEKLY"
	NotifyMonthly NotificationFrequency = "MONTHLY"
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
)

// User represents a registered user of the platform.
//
// TotalPoints is an aggregate: it equals the sum of all ProgressTheme.Progress
// the user has accrued through their ProgressStacks, and is maintained by the
// progress service as deltas are recorded.
type User struct {
	ID             uuid.UUID             `json:"id"`
	Username       string                `json:"username"`
	Email          string                `json:"email"`
	Password       string                `json:"-"` // Plaintext, only set transiently during registration/updates
	HashedPassword string                `json:"-"` // Never exposed in JSON
	Role           Role                  `json:"role"`
	Life           int                   `json:"life"`
	TotalPoints    int                   `json:"total_points"`
	AvatarURL      string                `json:"avatar_url,omitempty"`
	Notification   bool                  `json:"notification"`
	NotifyEvery    NotificationFrequency `json:"challenge_notification"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewUser creates a new BASIC user from registration data. The email is
// normalized to lower case. The caller is responsible for hashing the
// password before the user is stored.
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.ToLower(email),
		Password:     password,
		Role:         RoleBasic,
		Life:         3,
		TotalPoints:  0,
		Notification: true,
		NotifyEvery:  NotifyDaily,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs a basic shape check: a single non-leading,
// non-trailing '@' with a dotted domain part after it.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
