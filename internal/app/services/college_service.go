package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// CollegeService defines the interface for college-related operations
type CollegeService interface {
	ListColleges(ctx context.Context, search string) ([]*models.College, error)
	GetCollegeByID(ctx context.Context, id int64) (*models.College, error)
	// SaveCollege inserts when college.ID is zero and updates otherwise.
	SaveCollege(ctx context.Context, college *models.College) (int64, error)
	DeleteCollege(ctx context.Context, id int64) error
}

// collegeServiceImpl implements the CollegeService interface
type collegeServiceImpl struct {
	db          *db.Database
	collegeRepo *repositories.CollegeRepository
}

// NewCollegeService creates a new college service instance
func NewCollegeService(database *db.Database, collegeRepo *repositories.CollegeRepository) CollegeService {
	return &collegeServiceImpl{
		db:          database,
		collegeRepo: collegeRepo,
	}
}

// ListColleges retrieves colleges matching search
func (s *collegeServiceImpl) ListColleges(ctx context.Context, search string) ([]*models.College, error) {
	colleges, err := s.collegeRepo.ListColleges(ctx, s.db.DB, search)
	if err != nil {
		return nil, fmt.Errorf("error retrieving colleges: %w", err)
	}
	return colleges, nil
}

// GetCollegeByID retrieves a college by ID
func (s *collegeServiceImpl) GetCollegeByID(ctx context.Context, id int64) (*models.College, error) {
	if id <= 0 {
		return nil, apperrors.ErrCollegeNotFound
	}
	return s.collegeRepo.GetCollegeByID(ctx, s.db.DB, id)
}

// SaveCollege creates or updates a college in one transaction
func (s *collegeServiceImpl) SaveCollege(ctx context.Context, college *models.College) (int64, error) {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if college.ID == 0 {
			id, err := s.collegeRepo.CreateCollege(ctx, tx, college)
			if err != nil {
				return err
			}
			college.ID = id
			return nil
		}
		return s.collegeRepo.UpdateCollege(ctx, tx, college)
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info().Int64("collegeID", college.ID).Str("code", college.Code).Msg("College saved")
	return college.ID, nil
}

// DeleteCollege deletes a college that no program references
func (s *collegeServiceImpl) DeleteCollege(ctx context.Context, id int64) error {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.collegeRepo.GetCollegeByID(ctx, tx, id); err != nil {
			return err
		}
		return s.collegeRepo.DeleteCollege(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("collegeID", id).Msg("College deleted")
	return nil
}
