// Package auth registers users, checks credentials and issues and verifies
// session tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/logging"
	"todo-ledger/internal/models"
	"todo-ledger/internal/store"
	"todo-ledger/internal/util"
)

// Client-facing messages. Login and Verify failures are deliberately uniform.
const (
	msgInvalidCredentials = "invalid credentials"
	msgUnauthorized       = "unauthorized"
	msgUsernameTaken      = "username already exists"
)

// Identity is the verified caller extracted from a session token.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
}

// Token is a freshly minted session token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	users      store.UserStore
	tokens     *util.TokenManager
	bcryptCost int
	log        *slog.Logger

	// dummyHash is compared against when the username is unknown so both
	// login failures cost one bcrypt comparison.
	dummyHash string
}

// NewService builds the component. log may be nil.
func NewService(users store.UserStore, tokens *util.TokenManager, bcryptCost int, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = logging.Discard()
	}
	dummy, err := util.HashPassword("dummy-password-for-timing", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
		dummyHash:  dummy,
	}, nil
}

// Register creates a user with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, username, password string) (models.User, error) {
	username = util.NormalizeUsername(username)
	if err := util.ValidateUsername(username); err != nil {
		return models.User{}, apperr.Validation(err.Error())
	}
	if err := util.ValidatePassword(password); err != nil {
		return models.User{}, apperr.Validation(err.Error())
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, apperr.Internal("hash password", err)
	}

	user := models.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return models.User{}, apperr.Conflict(msgUsernameTaken)
		}
		return models.User{}, apperr.Internal("create user", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and mints a session token. Unknown users and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	username = util.NormalizeUsername(username)
	if username == "" || password == "" {
		return Token{}, apperr.Validation("username and password are required")
	}
	// bcrypt only compares the first 72 bytes; no stored password is longer
	if len(password) > util.MaxPasswordBytes {
		util.CheckPassword(password[:util.MaxPasswordBytes], s.dummyHash)
		return Token{}, apperr.Auth(msgInvalidCredentials, nil)
	}

	user, err := s.users.UserByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		util.CheckPassword(password, s.dummyHash)
		return Token{}, apperr.Auth(msgInvalidCredentials, nil)
	case err != nil:
		return Token{}, apperr.Internal("find user", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		s.log.Info("login rejected", "user_id", user.ID)
		return Token{}, apperr.Auth(msgInvalidCredentials, nil)
	}

	signed, expiresAt, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return Token{}, apperr.Internal("generate token", err)
	}
	s.log.Info("user logged in", "user_id", user.ID)
	return Token{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify returns the identity embedded in token. Malformed, tampered and
// expired tokens all yield the same AuthError.
func (s *Service) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.Auth(msgUnauthorized, nil)
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug("token rejected", "error", err)
		return Identity{}, apperr.Auth(msgUnauthorized, err)
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
