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
	"github.com/yigit/registrar/internal/pkg/logger"
)

// CollegeRepository handles college database operations
type CollegeRepository struct {
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(dialect db.Dialect) *CollegeRepository {
	return &CollegeRepository{sb: db.NewBuilder(dialect)}
}

// CreateCollege creates a new college and returns its id
func (r *CollegeRepository) CreateCollege(ctx context.Context, q db.DBTX, college *models.College) (int64, error) {
	query, args, err := r.sb.Insert("college").
		Columns("code", "name").
		Values(college.Code, college.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create college SQL")
		return 0, fmt.Errorf("failed to build create college query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCollegeAlreadyExists
		}
		return 0, fmt.Errorf("error creating college: %w", err)
	}
	return id, nil
}

// GetCollegeByID retrieves a college by ID
func (r *CollegeRepository) GetCollegeByID(ctx context.Context, q db.DBTX, id int64) (*models.College, error) {
	query, args, err := r.sb.Select("id", "code", "name").
		From("college").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	college := &models.College{}
	err = q.QueryRowContext(ctx, query, args...).Scan(&college.ID, &college.Code, &college.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error getting college by ID: %w", err)
	}
	return college, nil
}

// ListColleges retrieves colleges ordered by name, optionally filtered by a
// search term over code and name.
func (r *CollegeRepository) ListColleges(ctx context.Context, q db.DBTX, search string) ([]*models.College, error) {
	query, args, err := r.sb.Select("id", "code", "name").
		From("college").
		Where(searchFilter(search, "code", "name")).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list colleges query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying colleges: %w", err)
	}
	defer rows.Close()

	colleges := []*models.College{}
	for rows.Next() {
		college := &models.College{}
		if err := rows.Scan(&college.ID, &college.Code, &college.Name); err != nil {
			return nil, fmt.Errorf("error scanning college row: %w", err)
		}
		colleges = append(colleges, college)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating college rows: %w", err)
	}
	return colleges, nil
}

// UpdateCollege updates an existing college
func (r *CollegeRepository) UpdateCollege(ctx context.Context, q db.DBTX, college *models.College) error {
	query, args, err := r.sb.Update("college").
		SetMap(map[string]interface{}{
			"code": college.Code,
			"name": college.Name,
		}).
		Where(squirrel.Eq{"id": college.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update college query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollegeAlreadyExists
		}
		return fmt.Errorf("error updating college: %w", err)
	}
	return requireAffected(res, apperrors.ErrCollegeNotFound)
}

// DeleteCollege deletes a college by ID. It refuses while programs reference
// the college.
func (r *CollegeRepository) DeleteCollege(ctx context.Context, q db.DBTX, id int64) error {
	hasPrograms, err := r.HasPrograms(ctx, q, id)
	if err != nil {
		return err
	}
	if hasPrograms {
		return apperrors.ErrCollegeHasPrograms
	}

	query, args, err := r.sb.Delete("college").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete college query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			// a program was linked after the check
			return apperrors.ErrCollegeHasPrograms
		}
		return fmt.Errorf("error deleting college: %w", err)
	}
	return requireAffected(res, apperrors.ErrCollegeNotFound)
}

// HasPrograms reports whether any program references the college.
func (r *CollegeRepository) HasPrograms(ctx context.Context, q db.DBTX, id int64) (bool, error) {
	return exists(ctx, q, r.sb, "program", "college_id", id)
}

// CollegeIDs returns the ids a program may reference.
func (r *CollegeRepository) CollegeIDs(ctx context.Context, q db.DBTX) ([]int64, error) {
	return ids(ctx, q, r.sb, "college")
}

// CountColleges returns the number of colleges.
func (r *CollegeRepository) CountColleges(ctx context.Context, q db.DBTX) (int, error) {
	return count(ctx, q, r.sb, "college")
}
