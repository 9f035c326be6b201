// Package backend is the narrow contract the session manager holds on the
// hosted auth/data service. Any backend offering equivalent sign-in/sign-up,
// profile, and catalog semantics can sit behind it; the shipped implementation
// is MongoDB plus JWT identity markers.
package backend

import (
	"context"
	"errors"

	"uzhavan/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrNoSession          = errors.New("no active session")
	ErrNotFound           = errors.New("not found")
)

// Identity is an authenticated principal plus its signed session marker.
type Identity struct {
	UserID       string
	Token        string
	RefreshToken string
}

type Service interface {
	// SignIn authenticates email/secret and mints a session marker.
	SignIn(ctx context.Context, email, secret string) (Identity, error)
	// SignUp creates an identity with the profile attached and returns the new
	// user id. It does not authenticate the caller's session.
	SignUp(ctx context.Context, secret string, profile models.User) (string, error)
	SignOut(ctx context.Context, userID string) error
	// SessionUser resolves a previously issued marker back to a user id, or
	// ErrNoSession when the marker is missing, expired, or forged.
	SessionUser(ctx context.Context, token string) (string, error)

	UserByID(ctx context.Context, id string) (models.User, error)
	CreateProfile(ctx context.Context, u models.User) error

	// ListProducts returns the full catalog with each product joined to its
	// owning farmer's name and location.
	ListProducts(ctx context.Context) ([]models.Product, error)
}
