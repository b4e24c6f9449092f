package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// ProgramService defines the interface for program-related operations
type ProgramService interface {
	ListPrograms(ctx context.Context, search string) ([]*models.Program, error)
	GetProgramByID(ctx context.Context, id int64) (*models.Program, error)
	// CollegeChoices lists the colleges a program may belong to, by name.
	CollegeChoices(ctx context.Context) ([]models.Choice, error)
	SaveProgram(ctx context.Context, program *models.Program) (int64, error)
	DeleteProgram(ctx context.Context, id int64) error
}

// programServiceImpl implements the ProgramService interface
type programServiceImpl struct {
	db          *db.Database
	programRepo *repositories.ProgramRepository
	collegeRepo *repositories.CollegeRepository
}

// NewProgramService creates a new program service instance
func NewProgramService(database *db.Database, programRepo *repositories.ProgramRepository,
	collegeRepo *repositories.CollegeRepository) ProgramService {
	return &programServiceImpl{
		db:          database,
		programRepo: programRepo,
		collegeRepo: collegeRepo,
	}
}

// ListPrograms retrieves programs matching search
func (s *programServiceImpl) ListPrograms(ctx context.Context, search string) ([]*models.Program, error) {
	programs, err := s.programRepo.ListPrograms(ctx, s.db.DB, search)
	if err != nil {
		return nil, fmt.Errorf("error retrieving programs: %w", err)
	}
	return programs, nil
}

// GetProgramByID retrieves a program by ID
func (s *programServiceImpl) GetProgramByID(ctx context.Context, id int64) (*models.Program, error) {
	if id <= 0 {
		return nil, apperrors.ErrProgramNotFound
	}
	return s.programRepo.GetProgramByID(ctx, s.db.DB, id)
}

// CollegeChoices returns every college as a select choice
func (s *programServiceImpl) CollegeChoices(ctx context.Context) ([]models.Choice, error) {
	colleges, err := s.collegeRepo.ListColleges(ctx, s.db.DB, "")
	if err != nil {
		return nil, fmt.Errorf("error retrieving college choices: %w", err)
	}

	choices := make([]models.Choice, 0, len(colleges))
	for _, c := range colleges {
		choices = append(choices, models.Choice{ID: c.ID, Label: c.Name})
	}
	return choices, nil
}

// SaveProgram creates or updates a program in one transaction. The college
// is re-checked inside the transaction.
func (s *programServiceImpl) SaveProgram(ctx context.Context, program *models.Program) (int64, error) {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		collegeIDs, err := s.collegeRepo.CollegeIDs(ctx, tx)
		if err != nil {
			return err
		}
		if !slices.Contains(collegeIDs, program.CollegeID) {
			return apperrors.ErrCollegeNotFound
		}

		if program.ID == 0 {
			id, err := s.programRepo.CreateProgram(ctx, tx, program)
			if err != nil {
				return err
			}
			program.ID = id
			return nil
		}
		return s.programRepo.UpdateProgram(ctx, tx, program)
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info().Int64("programID", program.ID).Str("code", program.Code).Msg("Program saved")
	return program.ID, nil
}

// DeleteProgram deletes a program that no student references
func (s *programServiceImpl) DeleteProgram(ctx context.Context, id int64) error {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.programRepo.GetProgramByID(ctx, tx, id); err != nil {
			return err
		}
		return s.programRepo.DeleteProgram(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("programID", id).Msg("Program deleted")
	return nil
}
