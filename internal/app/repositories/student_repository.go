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

// StudentRepository handles student database operations
type StudentRepository struct {
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(dialect db.Dialect) *StudentRepository {
	return &StudentRepository{sb: db.NewBuilder(dialect)}
}

var studentColumns = []string{"id", "id_number", "first_name", "last_name", "gender", "year", "program_id"}

// CreateStudent creates a new student and returns its id
func (r *StudentRepository) CreateStudent(ctx context.Context, q db.DBTX, s *models.Student) (int64, error) {
	query, args, err := r.sb.Insert("student").
		Columns(studentColumns[1:]...).
		Values(s.IDNumber, s.FirstName, s.LastName, string(s.Gender), s.Year, s.ProgramID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrStudentIDAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.ErrProgramNotFound
		}
		return 0, fmt.Errorf("error creating student: %w", err)
	}
	return id, nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, q db.DBTX, id int64) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("student").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s := &models.Student{}
	err = q.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.IDNumber, &s.FirstName, &s.LastName, &s.Gender, &s.Year, &s.ProgramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

// ListStudents retrieves students with their program, ordered by last name
// then first name.
func (r *StudentRepository) ListStudents(ctx context.Context, q db.DBTX, search string) ([]*models.Student, error) {
	query, args, err := r.sb.Select("s.id", "s.id_number", "s.first_name", "s.last_name", "s.gender", "s.year",
		"s.program_id", "p.code", "p.name").
		From("student s").
		Join("program p ON p.id = s.program_id").
		Where(searchFilter(search, "s.id_number", "s.first_name", "s.last_name", "p.code")).
		OrderBy("s.last_name ASC", "s.first_name ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(&s.ID, &s.IDNumber, &s.FirstName, &s.LastName, &s.Gender, &s.Year,
			&s.ProgramID, &s.ProgramCode, &s.ProgramName); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// UpdateStudent updates an existing student
func (r *StudentRepository) UpdateStudent(ctx context.Context, q db.DBTX, s *models.Student) error {
	query, args, err := r.sb.Update("student").
		SetMap(map[string]interface{}{
			"id_number":  s.IDNumber,
			"first_name": s.FirstName,
			"last_name":  s.LastName,
			"gender":     string(s.Gender),
			"year":       s.Year,
			"program_id": s.ProgramID,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrStudentIDAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrProgramNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	return requireAffected(res, apperrors.ErrStudentNotFound)
}

// DeleteStudent deletes a student by ID
func (r *StudentRepository) DeleteStudent(ctx context.Context, q db.DBTX, id int64) error {
	query, args, err := r.sb.Delete("student").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	return requireAffected(res, apperrors.ErrStudentNotFound)
}

// CountStudents returns the number of students.
func (r *StudentRepository) CountStudents(ctx context.Context, q db.DBTX) (int, error) {
	return count(ctx, q, r.sb, "student")
}
