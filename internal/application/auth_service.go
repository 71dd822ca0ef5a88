package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/validation"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 6
	maxNameLen     = 50
	maxBioLen      = 500
)

// UserIndex is the full-text side index of usernames.
type UserIndex interface {
	IndexUser(ctx context.Context, u entity.User) error
	SearchUsernames(ctx context.Context, fragment string, limit int) ([]string, error)
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Bio       string
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	Token            string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             UserView
}

// AuthService issues and verifies credentials. Redis and Index are optional.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Index  UserIndex
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, index UserIndex, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Index: index, Logger: logger}
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func normalizeRegister(in RegisterInput) (RegisterInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Bio = strings.TrimSpace(in.Bio)

	switch {
	case runeLen(in.Username) < minUsernameLen || runeLen(in.Username) > maxUsernameLen:
		return in, invalid("Username must be between 3 and 20 characters")
	case !validation.IsEmail(in.Email):
		return in, invalid("Please enter a valid email")
	case runeLen(in.Password) < minPasswordLen:
		return in, invalid("Password must be at least 6 characters")
	case runeLen(in.FirstName) > maxNameLen || runeLen(in.LastName) > maxNameLen:
		return in, invalid("Names must be at most 50 characters")
	case runeLen(in.Bio) > maxBioLen:
		return in, invalid("Bio must be at most 500 characters")
	}
	return in, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in, err := normalizeRegister(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, *u); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to index user")
		}
	}
	return s.issue(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh validates a refresh token against the live session and rotates both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.checkSession(ctx, claims); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

// Logout drops the user's session so outstanding tokens stop resolving.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, helpers.SessionKey(userID)).Err()
}

// ResolveAccessToken returns the user an access token was issued to.
func (s *AuthService) ResolveAccessToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.checkSession(ctx, claims); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return u, err
}

// Me returns the account of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	v, err := viewWithFollows(ctx, s.Users, *u)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *AuthService) checkSession(ctx context.Context, claims *helpers.Claims) error {
	if s.Redis == nil {
		return nil
	}
	sid, err := s.Redis.HGet(ctx, helpers.SessionKey(claims.UserID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if sid != claims.SessionID {
		return ErrInvalidToken
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	sid := uuid.NewString()
	access, accessExp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.TxPipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "user_id": u.ID, "username": u.Username})
		pipe.Expire(ctx, key, s.JWT.RefreshTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	view, err := viewWithFollows(ctx, s.Users, *u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:            access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		User:             view,
	}, nil
}
