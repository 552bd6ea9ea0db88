package auth

import (
	"errors"
	"time"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Mail     string `json:"mail"     binding:"omitempty,email"`
}

type ForgotPasswordDTO struct {
	Username string `json:"username" binding:"required"`
}

type ResetPasswordDTO struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileDTO struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Mail   *string `json:"mail" binding:"omitempty,email"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	ID       string    `json:"id"`
	IP       string    `json:"ip"`
	UA       string    `json:"ua"`
	Current  bool      `json:"current"`
	Created  time.Time `json:"created"`
	LastSeen time.Time `json:"last_seen"`
}

var (
	errUserNotFound      = errors.New("user not found")
	errWrongPassword     = errors.New("wrong password")
	errAdminExists       = errors.New("administrator already registered")
	errRegistrationOff   = errors.New("registration disabled")
	errResetTokenInvalid = errors.New("reset token invalid or expired")
)
