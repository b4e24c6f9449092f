package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = apperrors.NewCustomError(apperrors.ErrResourceNotFound, "User not found")

// UserRepository handles user database operations
type UserRepository struct {
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(dialect db.Dialect) *UserRepository {
	return &UserRepository{sb: db.NewBuilder(dialect)}
}

// CreateUser creates a new user. Password must already be hashed.
func (r *UserRepository) CreateUser(ctx context.Context, q db.DBTX, user *models.User) (int64, error) {
	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "password_hash").
		Values(user.Username, user.Email, user.Password).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, q db.DBTX, username string) (*models.User, error) {
	query, args, err := r.sb.Select("id", "username", "email", "password_hash").
		From("users").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	err = q.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}
