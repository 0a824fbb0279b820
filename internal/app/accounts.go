package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type SignupIn struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type LoginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new account. Accounts start as plain guests;
// host privilege is a separate, explicit upgrade.
func (a *App) Signup(ctx context.Context, in SignupIn) (*User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if username == "" || email == "" || in.DisplayName == "" || in.Password == "" {
		return nil, ErrFieldsRequired
	}

	// Friendly pre-checks; the unique indexes decide under races.
	if _, err := a.Store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrNoRecord) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := a.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		IsHost:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (a *App) Login(ctx context.Context, in LoginIn) (*User, string, error) {
	user, err := a.Store.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("resolve user: %w", err)
	}
	if !verifyPassword(user.PasswordHash, in.Password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := a.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// UserDetail is the public profile lookup.
func (a *App) UserDetail(ctx context.Context, username string) (*User, error) {
	user, err := a.Store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// BecomeHost grants host privilege to the authenticated user.
func (a *App) BecomeHost(ctx context.Context, user *User) (*User, error) {
	if user.IsHost {
		return user, nil
	}
	user.IsHost = true
	user.UpdatedAt = a.Now().UTC()
	if err := a.Store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
