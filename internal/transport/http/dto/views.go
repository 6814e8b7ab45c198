package dto

import (
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

// UserView is the public projection of a user. Password hash and the
// verification token never leave the service.
type UserView struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Designation      string     `json:"designation"`
	Status           string     `json:"status"`
	RegistrationDate time.Time  `json:"registrationDate"`
	LastLoginTime    *time.Time `json:"lastLoginTime"`
}

func ToUserView(u domain.User) UserView {
	return UserView{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Designation:      u.Designation,
		Status:           string(u.Status),
		RegistrationDate: u.RegistrationDate,
		LastLoginTime:    u.LastLoginTime,
	}
}

func ToUserViews(users []domain.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserView(u))
	}
	return out
}

// LoginUserView is the compact identity returned with a fresh token.
type LoginUserView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	Designation string `json:"designation"`
}

type RegisterData struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginData struct {
	Token string        `json:"token"`
	User  LoginUserView `json:"user"`
}

type BulkActionData struct {
	Message string `json:"message"`
}

type HealthData struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
