// Package services contains server-side business logic: account handling,
// the program composer, the session ledger, and the telemetry publisher.
// Services translate repository failures into the shared error taxonomy and
// never partially apply a multi-step write.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/cryptox"
	"github.com/pancakescience/cooktrack/internal/server/auth"
	"github.com/pancakescience/cooktrack/internal/server/config"
	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/repositories/repomanager"
)

// UserService provides registration and login. A successful login mints the
// access token the HTTP adapter expects on every owned route.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user with a salted digest of the password.
// A username collision surfaces as common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, common.NewValidationError("username and password are required")
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	id, err := repo.Create(ctx, username, digest)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// Login verifies the password against the stored digest and, on success,
// returns the user and a signed access token. An unknown username and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", common.ErrInternal
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return user, token, nil
}
