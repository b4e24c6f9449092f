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

// ProgramRepository handles program database operations
type ProgramRepository struct {
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(dialect db.Dialect) *ProgramRepository {
	return &ProgramRepository{sb: db.NewBuilder(dialect)}
}

// CreateProgram creates a new program and returns its id
func (r *ProgramRepository) CreateProgram(ctx context.Context, q db.DBTX, program *models.Program) (int64, error) {
	query, args, err := r.sb.Insert("program").
		Columns("code", "name", "college_id").
		Values(program.Code, program.Name, program.CollegeID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create program query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrProgramAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.ErrCollegeNotFound
		}
		return 0, fmt.Errorf("error creating program: %w", err)
	}
	return id, nil
}

// GetProgramByID retrieves a program by ID
func (r *ProgramRepository) GetProgramByID(ctx context.Context, q db.DBTX, id int64) (*models.Program, error) {
	query, args, err := r.sb.Select("id", "code", "name", "college_id").
		From("program").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	program := &models.Program{}
	err = q.QueryRowContext(ctx, query, args...).Scan(&program.ID, &program.Code, &program.Name, &program.CollegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error getting program by ID: %w", err)
	}
	return program, nil
}

// ListPrograms retrieves programs with their college, ordered by name.
func (r *ProgramRepository) ListPrograms(ctx context.Context, q db.DBTX, search string) ([]*models.Program, error) {
	query, args, err := r.sb.Select("p.id", "p.code", "p.name", "p.college_id", "c.code", "c.name").
		From("program p").
		Join("college c ON c.id = p.college_id").
		Where(searchFilter(search, "p.code", "p.name", "c.code")).
		OrderBy("p.name ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.Program{}
	for rows.Next() {
		p := &models.Program{}
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CollegeID, &p.CollegeCode, &p.CollegeName); err != nil {
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}
	return programs, nil
}

// UpdateProgram updates an existing program
func (r *ProgramRepository) UpdateProgram(ctx context.Context, q db.DBTX, program *models.Program) error {
	query, args, err := r.sb.Update("program").
		SetMap(map[string]interface{}{
			"code":       program.Code,
			"name":       program.Name,
			"college_id": program.CollegeID,
		}).
		Where(squirrel.Eq{"id": program.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrProgramAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrCollegeNotFound
		}
		return fmt.Errorf("error updating program: %w", err)
	}
	return requireAffected(res, apperrors.ErrProgramNotFound)
}

// DeleteProgram deletes a program by ID. It refuses while students reference
// the program.
func (r *ProgramRepository) DeleteProgram(ctx context.Context, q db.DBTX, id int64) error {
	hasStudents, err := r.HasStudents(ctx, q, id)
	if err != nil {
		return err
	}
	if hasStudents {
		return apperrors.ErrProgramHasStudents
	}

	query, args, err := r.sb.Delete("program").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete program query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProgramHasStudents
		}
		return fmt.Errorf("error deleting program: %w", err)
	}
	return requireAffected(res, apperrors.ErrProgramNotFound)
}

// HasStudents reports whether any student references the program.
func (r *ProgramRepository) HasStudents(ctx context.Context, q db.DBTX, id int64) (bool, error) {
	return exists(ctx, q, r.sb, "student", "program_id", id)
}

// ProgramIDs returns the ids a student may reference.
func (r *ProgramRepository) ProgramIDs(ctx context.Context, q db.DBTX) ([]int64, error) {
	return ids(ctx, q, r.sb, "program")
}

// CountPrograms returns the number of programs.
func (r *ProgramRepository) CountPrograms(ctx context.Context, q db.DBTX) (int, error) {
	return count(ctx, q, r.sb, "program")
}
