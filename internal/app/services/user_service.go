package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// RegisterUserRequest holds the fields needed to create a user
type RegisterUserRequest struct {
	Username string `validate:"required,max=80"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required"`
}

// UserService defines user account operations
type UserService interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error)
}

type userServiceImpl struct {
	db       *db.Database
	userRepo *repositories.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new user service instance
func NewUserService(database *db.Database, userRepo *repositories.UserRepository) UserService {
	return &userServiceImpl{
		db:       database,
		userRepo: userRepo,
		validate: validator.New(),
	}
}

// RegisterUser validates req, hashes the password and stores the user
func (s *userServiceImpl) RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: hash}
	user.ID, err = s.userRepo.CreateUser(ctx, s.db.DB, user)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User created")
	return user, nil
}
