package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User represents a user entity
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Address        string     `json:"address,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Role           UserRole   `json:"role"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RegistrationInput carries the full registration payload. It is validated
// before any state is written and stashed verbatim until OTP verification.
type RegistrationInput struct {
	Email          string `json:"email" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Password2      string `json:"password2" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
	Address        string `json:"address"`
	ProfilePicture string `json:"profile_picture"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SendOTPInput represents input for initiating an OTP flow
type SendOTPInput struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose"`
}

// VerifyOTPInput represents input for OTP verification
type VerifyOTPInput struct {
	Email   string `json:"email" binding:"required,email"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose"`
}

// ResendOTPInput represents input for OTP resend
type ResendOTPInput struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	User         *User  `json:"user"`
}

// UpdateProfileInput carries a partial profile update. Nil pointers leave
// the field untouched; an empty profile picture string clears it.
type UpdateProfileInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	DateOfBirth    *string `json:"date_of_birth"`
	Address        *string `json:"address"`
	ProfilePicture *string `json:"profile_picture"`
}
