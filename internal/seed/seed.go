package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/registrar/internal/app/models"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// DefaultColleges are created on first start when seeding is enabled
var DefaultColleges = []appModels.College{
	{Code: "CCS", Name: "College of Computer Studies"},
	{Code: "COE", Name: "College of Engineering"},
	{Code: "CBAA", Name: "College of Business Administration and Accountancy"},
	{Code: "CAS", Name: "College of Arts and Sciences"},
}

// defaultProgram names its college by code
type defaultProgram struct {
	appModels.Program
	collegeCode string
}

var defaultPrograms = []defaultProgram{
	{appModels.Program{Code: "BSCS", Name: "Bachelor of Science in Computer Science"}, "CCS"},
	{appModels.Program{Code: "BSEE", Name: "Bachelor of Science in Electrical Engineering"}, "COE"},
	{appModels.Program{Code: "BSIT", Name: "Bachelor of Science in Information Technology"}, "CCS"},
}

// CreateDefaultData creates default colleges and programs if they don't
// exist. Existing rows are left untouched, so it is safe to run on every
// start.
func CreateDefaultData(ctx context.Context, database *db.Database, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database.Dialect)
	collegeIDs := map[string]int64{}
	var finalErr error // collect errors without stopping the process

	lgr.Info().Msg("Checking/Creating default data (Colleges/Programs)...")

	for _, c := range DefaultColleges {
		college := c
		id, err := repos.CollegeRepository.CreateCollege(ctx, database.DB, &college)
		switch {
		case err == nil:
			lgr.Info().Str("code", college.Code).Msg("Default college created")
			collegeIDs[college.Code] = id
		case errors.Is(err, apperrors.ErrCollegeAlreadyExists):
			existing, err := findCollegeID(ctx, database, repos, college.Code)
			if err != nil {
				finalErr = errors.Join(finalErr, err)
				continue
			}
			collegeIDs[college.Code] = existing
		default:
			lgr.Error().Err(err).Str("code", college.Code).Msg("Error creating default college")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, p := range defaultPrograms {
		collegeID, ok := collegeIDs[p.collegeCode]
		if !ok {
			continue
		}
		program := p.Program
		program.CollegeID = collegeID
		_, err := repos.ProgramRepository.CreateProgram(ctx, database.DB, &program)
		switch {
		case err == nil:
			lgr.Info().Str("code", program.Code).Msg("Default program created")
		case errors.Is(err, apperrors.ErrProgramAlreadyExists):
			// already seeded
		default:
			lgr.Error().Err(err).Str("code", program.Code).Msg("Error creating default program")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func findCollegeID(ctx context.Context, database *db.Database, repos *appRepos.Repositories, code string) (int64, error) {
	colleges, err := repos.CollegeRepository.ListColleges(ctx, database.DB, code)
	if err != nil {
		return 0, err
	}
	for _, c := range colleges {
		if c.Code == code {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("college %s reported as existing but not found", code)
}
