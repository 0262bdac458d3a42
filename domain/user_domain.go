package domain

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister              = "user registered successfully"
	MessageSuccessLogin                 = "login success"
	MessageSuccessGetMe                 = "user profile retrieved successfully"
	MessageSuccessUpdateUser            = "user updated successfully"
	MessageSuccessSendVerificationEmail = "verification email sent successfully"
	MessageSuccessVerifyEmail           = "email verified successfully"
	MessageSuccessGetProfileStats       = "profile statistics retrieved successfully"

	MessageFailedRegister              = "failed to register user"
	MessageFailedLogin                 = "failed to login"
	MessageFailedGetMe                 = "failed to retrieve user profile"
	MessageFailedUpdateUser            = "failed to update user"
	MessageFailedSendVerificationEmail = "failed to send verification email"
	MessageFailedVerifyEmail           = "failed to verify email"
	MessageFailedGetProfileStats       = "failed to retrieve profile statistics"

	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name   string                `json:"name" validate:"omitempty,min=2"`
		Avatar *multipart.FileHeader `json:"avatar" form:"avatar"`
	}

	SendVerificationEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	UserResponse struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		AvatarURL  string    `json:"avatar_url,omitempty"`
		IsVerified bool      `json:"is_verified"`
		CreatedAt  time.Time `json:"created_at"`
	}

	// ProfileStats mirrors the collections the lifecycle engine mutates;
	// each count is computed independently from live data.
	ProfileStats struct {
		ItemsListed      int64 `json:"items_listed"`
		ItemsDonated     int64 `json:"items_donated"`
		RequestsReceived int64 `json:"requests_received"`
	}
)
