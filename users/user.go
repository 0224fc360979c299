package users

import "time"

type User struct {
	Id                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	Password               string     `json:"-"`
	PhoneNumber            string     `json:"phone_number"`
	EmailVerificationToken string     `json:"-"`
	EmailVerifiedAt        *time.Time `json:"email_verified_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}
