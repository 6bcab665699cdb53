package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopswift/marketplace/services/common/auth"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/user-service/models"
	"github.com/shopswift/marketplace/services/user-service/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ExistsForOther(ctx context.Context, field, value string, id primitive.ObjectID) (bool, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.User, error)
}

type ITokenService interface {
	Issue(p auth.Principal) (string, error)
	Parse(token string) (auth.Principal, error)
}

type IPasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type ProfileUpdate struct {
	Username *string
	Email    *string
}

// AuthResult is what registration and login hand back to the client.
type AuthResult struct {
	AccessToken string
	User        models.PublicUser
}

var (
	ErrUserExists    = apperrors.Conflict("User already exists")
	ErrEmailInUse    = apperrors.Conflict("Email already in use")
	ErrUsernameTaken = apperrors.Conflict("Username already in use")
	ErrUserNotFound  = apperrors.NotFound("User not found")
	ErrBlankUsername = apperrors.Validation("username must not be blank")
)

type AuthService struct {
	users  IUserRepository
	tokens ITokenService
	hasher IPasswordHasher
}

func NewAuthService(users IUserRepository, tokens ITokenService, hasher IPasswordHasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, ok := auth.ParseRole(in.Role)
	if !ok {
		return nil, apperrors.Validation("role must be one of [user vendor]")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperrors.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, apperrors.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrBlankUsername
	}
	email := normalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, apperrors.Internal(err)
	}

	logger.FromContext(ctx).Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(role)))
	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password share one
// response; only the log line tells them apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		logger.FromContext(ctx).Warn("Login failed: no such email")
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if !s.hasher.Compare(user.Password, password) {
		logger.FromContext(ctx).Warn("Login failed: wrong password", zap.String("user_id", user.ID.Hex()))
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	updates := bson.M{}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		taken, err := s.users.ExistsForOther(ctx, "email", email, id)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if taken {
			return nil, ErrEmailInUse
		}
		updates["email"] = email
	}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if username == "" {
			return nil, ErrBlankUsername
		}
		taken, err := s.users.ExistsForOther(ctx, "username", username, id)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		updates["username"] = username
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("username or email is required")
	}

	user, err := s.users.UpdateProfile(ctx, id, updates)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrEmailInUse
	case err != nil:
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// VerifyToken validates the token and confirms its user still exists.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.GetProfile(ctx, principal.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	return user, err
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("sign token: %w", err))
	}
	return &AuthResult{AccessToken: token, User: user.Public()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
