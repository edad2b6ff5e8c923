package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Anonymous attribution for sharing while logged out.
const (
	AnonymousID   = "anonymous"
	AnonymousName = "Anonymous User"
)

func Anonymous() User {
	return User{ID: AnonymousID, Name: AnonymousName}
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ExamDate     string    `json:"exam_date"` // free-form; set during onboarding
	Goals        string    `json:"goals"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser is the payload for user registration.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUser is the payload for profile updates; zero-valued fields are left untouched.
type UpdateUser struct {
	Name     string `json:"name"`
	ExamDate string `json:"exam_date"`
	Goals    string `json:"goals"`
}

// ResetUserPassword is the payload for password reset confirmation.
type ResetUserPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// ChangePassword is the payload for an authenticated password change.
type ChangePassword struct {
	OldPassword string `json:"old_password" validate:"required"`
	Password    string `json:"password" validate:"required"`
}
