package app_test

import (
	"context"
	"errors"
	"testing"

	"booking-service/internal/app"
)

func TestSignupAndLogin(t *testing.T) {
	a := newTestApp(t)

	user, err := a.Signup(context.Background(), app.SignupIn{
		Username:    "alice",
		Email:       "Alice@Example.COM",
		DisplayName: "Alice",
		Password:    "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.IsHost {
		t.Fatal("new accounts must start as guests")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	logged, token, err := a.Login(context.Background(), app.LoginIn{
		Username: "alice", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || logged.ID != user.ID {
		t.Fatalf("unexpected login result: %q %+v", token, logged)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	a := newTestApp(t)
	signupUser(t, a, "alice")

	_, err := a.Signup(context.Background(), app.SignupIn{
		Username:    "alice",
		Email:       "other@example.com",
		DisplayName: "Other Alice",
		Password:    "s3cret-pass",
	})
	if !errors.Is(err, app.ErrDuplicateUsername) {
		t.Fatalf("want ErrDuplicateUsername, got %v", err)
	}
}

func TestSignupMissingFields(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Signup(context.Background(), app.SignupIn{
		Username: "   ",
		Email:    "a@example.com",
		Password: "p",
	})
	if !errors.Is(err, app.ErrFieldsRequired) {
		t.Fatalf("want ErrFieldsRequired, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newTestApp(t)
	signupUser(t, a, "alice")

	if _, _, err := a.Login(context.Background(), app.LoginIn{
		Username: "alice", Password: "wrong",
	}); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := a.Login(context.Background(), app.LoginIn{
		Username: "nobody", Password: "whatever",
	}); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestBecomeHostIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	bob := signupUser(t, a, "bob")

	upgraded, err := a.BecomeHost(context.Background(), bob)
	if err != nil || !upgraded.IsHost {
		t.Fatalf("become host: %+v (%v)", upgraded, err)
	}
	again, err := a.BecomeHost(context.Background(), upgraded)
	if err != nil || !again.IsHost {
		t.Fatalf("repeat become host: %+v (%v)", again, err)
	}

	stored, err := a.Store.GetUserByID(context.Background(), bob.ID)
	if err != nil || !stored.IsHost {
		t.Fatalf("host flag not persisted: %+v (%v)", stored, err)
	}
}

func TestUserDetail(t *testing.T) {
	a := newTestApp(t)
	signupUser(t, a, "alice")

	user, err := a.UserDetail(context.Background(), "alice")
	if err != nil || user.Username != "alice" {
		t.Fatalf("user detail: %+v (%v)", user, err)
	}
	if _, err := a.UserDetail(context.Background(), "nobody"); !errors.Is(err, app.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
