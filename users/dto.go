package users

import "time"

type RegisterRequest struct {
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=8,max=255"`
	Name                   string `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber            string `json:"phone_number" validate:"required,min=10,max=15"`
	PasswordConfirmation   string `json:"password_confirmation" validate:"required,eqfield=Password"`
	EmailVerificationToken string `json:"email_verification_token" validate:"required"`
}

type UpdateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

const EventUserRegistered = "user.registered"

type UserRegisteredEvent struct {
	Type                   string    `json:"type"`
	UserId                 int64     `json:"user_id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	EmailVerificationToken string    `json:"email_verification_token"`
	OccurredAt             time.Time `json:"occurred_at"`
}
