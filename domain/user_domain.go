package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSignUp        = "account created"
	MessageSuccessSignIn        = "signed in"
	MessageSuccessSignOut       = "signed out"
	MessageSuccessGetUser       = "success get user"
	MessageSuccessDeleteAccount = "account deleted"
	MessageSuccessGetProfile    = "success get profile"

	MessageFailedSignUp        = "failed to sign up"
	MessageFailedSignIn        = "failed to sign in"
	MessageFailedSignOut       = "failed to sign out"
	MessageFailedGetUser       = "failed to get user"
	MessageFailedDeleteAccount = "failed to delete account"
	MessageFailedGetProfile    = "failed to get profile"

	ErrUsernameTaken           = errors.New("username taken")
	ErrInvalidUsernamePassword = errors.New("invalid username or password")
	ErrUserNotFound            = errors.New("user not found")
)

type (
	SignUpRequest struct {
		Username        string `json:"username" validate:"required,min=3,max=15,username"`
		Password        string `json:"password" validate:"required,min=8,maxbytes=72"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
		RedirectTo      string `json:"redirect_to,omitempty"`
	}

	SignInRequest struct {
		Username   string `json:"username" validate:"required"`
		Password   string `json:"password" validate:"required"`
		RedirectTo string `json:"redirect_to,omitempty"`
	}

	AuthResponse struct {
		User       UserResponse `json:"user"`
		RedirectTo string       `json:"redirect_to"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}

	ProfileRecipe struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		MediaURL string `json:"media_url"`
	}

	ProfileResponse struct {
		ID       string          `json:"id"`
		Username string          `json:"username"`
		Recipes  []ProfileRecipe `json:"recipes"`
	}
)
