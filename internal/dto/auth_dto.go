package dto

import (
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/viewstate"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=72"`
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"omitempty,email,max=254"`
	Password        string `json:"password" validate:"max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"max=72"`
}

type LoginFormResponse struct {
	UserName       string `json:"user_name"`
	UserNameSignUp string `json:"user_name_sign_up"`
	IsLoading      bool   `json:"is_loading"`
	IsSuccessLogin bool   `json:"is_success_login"`
	SignUpError    string `json:"sign_up_error,omitempty"`
	LoginError     string `json:"login_error,omitempty"`
}

// NewLoginFormResponse leaves the password fields out.
func NewLoginFormResponse(s viewstate.LoginFormState) LoginFormResponse {
	return LoginFormResponse{
		UserName:       s.UserName,
		UserNameSignUp: s.UserNameSignUp,
		IsLoading:      s.IsLoading,
		IsSuccessLogin: s.IsSuccessLogin,
		SignUpError:    s.SignUpError,
		LoginError:     s.LoginError,
	}
}

type AuthResponse struct {
	Token     string                 `json:"token,omitempty"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	Session   viewstate.SessionState `json:"session"`
	Form      LoginFormResponse      `json:"form"`
}

func NewAuthResponse(session *entity.Session, form viewstate.LoginFormState) AuthResponse {
	res := AuthResponse{Form: NewLoginFormResponse(form)}
	if session != nil {
		expiresAt := session.ExpiresAt
		res.Token = session.Token
		res.ExpiresAt = &expiresAt
		res.Session = viewstate.SessionState{Authenticated: true, UserId: session.UserId}
	}
	return res
}
