package viewstate

import (
	"context"
	"errors"
	"strings"

	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/service"
)

var (
	ErrEmptyCredentials = errors.New("email and password can not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type LoginFormState struct {
	UserName              string
	Password              string
	UserNameSignUp        string
	PasswordSignUp        string
	ConfirmPasswordSignUp string
	IsLoading             bool
	IsSuccessLogin        bool
	SignUpError           string
	LoginError            string
}

type LoginViewState struct {
	auth   service.IAuthGateway
	logger logger.ILogger
	state  *Observable[LoginFormState]
}

func NewLoginViewState(auth service.IAuthGateway, log logger.ILogger) *LoginViewState {
	return &LoginViewState{
		auth:   auth,
		logger: log,
		state:  NewObservable(LoginFormState{}),
	}
}

func (v *LoginViewState) State() LoginFormState {
	return v.state.Get()
}

func (v *LoginViewState) Watch() (<-chan LoginFormState, func()) {
	return v.state.Watch()
}

func (v *LoginViewState) HasUser() bool {
	return v.auth.HasUser()
}

func (v *LoginViewState) SetUserName(userName string) {
	v.update(func(s *LoginFormState) { s.UserName = userName })
}

func (v *LoginViewState) SetPassword(password string) {
	v.update(func(s *LoginFormState) { s.Password = password })
}

func (v *LoginViewState) SetUserNameSignUp(userName string) {
	v.update(func(s *LoginFormState) { s.UserNameSignUp = userName })
}

func (v *LoginViewState) SetPasswordSignUp(password string) {
	v.update(func(s *LoginFormState) { s.PasswordSignUp = password })
}

func (v *LoginViewState) SetConfirmPasswordSignUp(password string) {
	v.update(func(s *LoginFormState) { s.ConfirmPasswordSignUp = password })
}

func (v *LoginViewState) update(fn func(s *LoginFormState)) {
	v.state.Update(func(s LoginFormState) LoginFormState {
		fn(&s)
		return s
	})
}

// SignIn signs in with UserName and Password.
func (v *LoginViewState) SignIn(ctx context.Context) error {
	form := v.state.Get()
	if strings.TrimSpace(form.UserName) == "" || strings.TrimSpace(form.Password) == "" {
		v.update(func(s *LoginFormState) { s.LoginError = ErrEmptyCredentials.Error() })
		return ErrEmptyCredentials
	}

	v.update(func(s *LoginFormState) {
		s.IsLoading = true
		s.LoginError = ""
	})

	err := v.auth.SignIn(ctx, form.UserName, form.Password)
	if err != nil {
		v.logger.Warn("LoginViewState", "Sign in failed", map[string]interface{}{"error": err.Error()})
	}

	v.update(func(s *LoginFormState) {
		s.IsLoading = false
		s.IsSuccessLogin = err == nil
		if err != nil {
			s.LoginError = err.Error()
		}
	})
	return err
}

// SignUp registers with the three sign-up fields, then signs the new account in.
func (v *LoginViewState) SignUp(ctx context.Context) error {
	form := v.state.Get()
	if strings.TrimSpace(form.UserNameSignUp) == "" ||
		strings.TrimSpace(form.PasswordSignUp) == "" ||
		strings.TrimSpace(form.ConfirmPasswordSignUp) == "" {
		v.update(func(s *LoginFormState) { s.SignUpError = ErrEmptyCredentials.Error() })
		return ErrEmptyCredentials
	}
	if form.PasswordSignUp != form.ConfirmPasswordSignUp {
		v.update(func(s *LoginFormState) { s.SignUpError = ErrPasswordMismatch.Error() })
		return ErrPasswordMismatch
	}

	v.update(func(s *LoginFormState) {
		s.IsLoading = true
		s.SignUpError = ""
	})

	err := v.auth.SignUp(ctx, form.UserNameSignUp, form.PasswordSignUp)
	if err != nil {
		v.logger.Warn("LoginViewState", "Sign up failed", map[string]interface{}{"error": err.Error()})
	}

	v.update(func(s *LoginFormState) {
		s.IsLoading = false
		s.IsSuccessLogin = err == nil
		if err != nil {
			s.SignUpError = err.Error()
		}
	})
	return err
}
