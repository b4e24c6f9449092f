package services

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
)

// Counts is the number of records per entity
type Counts struct {
	Colleges int
	Programs int
	Students int
}

// OverviewService provides the figures shown on the index page
type OverviewService interface {
	Counts(ctx context.Context) (Counts, error)
}

type overviewServiceImpl struct {
	db    *db.Database
	repos *repositories.Repositories
}

// NewOverviewService creates a new overview service instance
func NewOverviewService(database *db.Database, repos *repositories.Repositories) OverviewService {
	return &overviewServiceImpl{db: database, repos: repos}
}

func (s *overviewServiceImpl) Counts(ctx context.Context) (Counts, error) {
	var (
		c   Counts
		err error
	)
	if c.Colleges, err = s.repos.CollegeRepository.CountColleges(ctx, s.db.DB); err != nil {
		return Counts{}, fmt.Errorf("error counting colleges: %w", err)
	}
	if c.Programs, err = s.repos.ProgramRepository.CountPrograms(ctx, s.db.DB); err != nil {
		return Counts{}, fmt.Errorf("error counting programs: %w", err)
	}
	if c.Students, err = s.repos.StudentRepository.CountStudents(ctx, s.db.DB); err != nil {
		return Counts{}, fmt.Errorf("error counting students: %w", err)
	}
	return c, nil
}
