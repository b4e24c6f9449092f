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

// StudentService defines the interface for student-related operations
type StudentService interface {
	ListStudents(ctx context.Context, search string) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	// ProgramChoices lists the programs a student may enroll in, by name.
	ProgramChoices(ctx context.Context) ([]models.Choice, error)
	SaveStudent(ctx context.Context, student *models.Student) (int64, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	db          *db.Database
	studentRepo *repositories.StudentRepository
	programRepo *repositories.ProgramRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(database *db.Database, studentRepo *repositories.StudentRepository,
	programRepo *repositories.ProgramRepository) StudentService {
	return &studentServiceImpl{
		db:          database,
		studentRepo: studentRepo,
		programRepo: programRepo,
	}
}

func (s *studentServiceImpl) ListStudents(ctx context.Context, search string) ([]*models.Student, error) {
	students, err := s.studentRepo.ListStudents(ctx, s.db.DB, search)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.studentRepo.GetStudentByID(ctx, s.db.DB, id)
}

func (s *studentServiceImpl) ProgramChoices(ctx context.Context) ([]models.Choice, error) {
	programs, err := s.programRepo.ListPrograms(ctx, s.db.DB, "")
	if err != nil {
		return nil, fmt.Errorf("error retrieving program choices: %w", err)
	}

	choices := make([]models.Choice, 0, len(programs))
	for _, p := range programs {
		choices = append(choices, models.Choice{ID: p.ID, Label: p.Name})
	}
	return choices, nil
}

// SaveStudent creates or updates a student in one transaction
func (s *studentServiceImpl) SaveStudent(ctx context.Context, student *models.Student) (int64, error) {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		programIDs, err := s.programRepo.ProgramIDs(ctx, tx)
		if err != nil {
			return err
		}
		if !slices.Contains(programIDs, student.ProgramID) {
			return apperrors.ErrProgramNotFound
		}

		if student.ID == 0 {
			id, err := s.studentRepo.CreateStudent(ctx, tx, student)
			if err != nil {
				return err
			}
			student.ID = id
			return nil
		}
		return s.studentRepo.UpdateStudent(ctx, tx, student)
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info().Int64("studentID", student.ID).Str("idNumber", student.IDNumber).Msg("Student saved")
	return student.ID, nil
}

// DeleteStudent deletes a student
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.studentRepo.GetStudentByID(ctx, tx, id); err != nil {
			return err
		}
		return s.studentRepo.DeleteStudent(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
