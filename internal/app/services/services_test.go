package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/testutil"
)

type fixture struct {
	db       *db.Database
	colleges CollegeService
	programs ProgramService
	students StudentService
	overview OverviewService
	users    UserService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	d := testutil.SetupTestDB(t)
	repos := repositories.NewRepositories(d.Dialect)
	return fixture{
		db:       d,
		colleges: NewCollegeService(d, repos.CollegeRepository),
		programs: NewProgramService(d, repos.ProgramRepository, repos.CollegeRepository),
		students: NewStudentService(d, repos.StudentRepository, repos.ProgramRepository),
		overview: NewOverviewService(d, repos),
		users:    NewUserService(d, repos.UserRepository),
	}
}

func TestCollegeService_SaveBranchesOnID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.colleges.SaveCollege(ctx, &models.College{Code: "CCS", Name: "Computing"})
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = f.colleges.SaveCollege(ctx, &models.College{ID: id, Code: "CCS", Name: "College of Computing"})
	require.NoError(t, err)

	got, err := f.colleges.GetCollegeByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "College of Computing", got.Name)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "college"))

	_, err = f.colleges.SaveCollege(ctx, &models.College{ID: id + 100, Code: "ZZZ", Name: "Ghost"})
	assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "college"))
}

func TestCollegeService_DuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.colleges.SaveCollege(ctx, &models.College{Code: "C01", Name: "Test"})
	require.NoError(t, err)

	_, err = f.colleges.SaveCollege(ctx, &models.College{Code: "C01", Name: "Again"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "college"))
}

func TestDeleteServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seeded := testutil.SeedScenario(t, f.db)

	assert.ErrorIs(t, f.colleges.DeleteCollege(ctx, seeded.CollegeID), apperrors.ErrCollegeHasPrograms)
	assert.ErrorIs(t, f.programs.DeleteProgram(ctx, seeded.ProgramID), apperrors.ErrProgramHasStudents)
	assert.ErrorIs(t, f.students.DeleteStudent(ctx, 9999), apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, f.colleges.DeleteCollege(ctx, 9999), apperrors.ErrCollegeNotFound)

	require.NoError(t, f.students.DeleteStudent(ctx, seeded.StudentID))
	require.NoError(t, f.programs.DeleteProgram(ctx, seeded.ProgramID))
	require.NoError(t, f.colleges.DeleteCollege(ctx, seeded.CollegeID))

	counts, err := f.overview.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestProgramService_RejectsUnknownCollege(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.programs.SaveProgram(ctx, &models.Program{Code: "P01", Name: "Test", CollegeID: 77})
	assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "program"))
}

func TestChoices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seeded := testutil.SeedScenario(t, f.db)

	colleges, err := f.programs.CollegeChoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Choice{{ID: seeded.CollegeID, Label: "Test College"}}, colleges)

	programs, err := f.students.ProgramChoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Choice{{ID: seeded.ProgramID, Label: "Test Program"}}, programs)

	counts, err := f.overview.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Colleges: 1, Programs: 1, Students: 1}, counts)
}

func TestStudentService_Save(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seeded := testutil.SeedScenario(t, f.db)

	_, err := f.students.SaveStudent(ctx, &models.Student{
		IDNumber: "2025-0001", FirstName: "Jane", LastName: "Doe",
		Gender: models.GenderFemale, Year: 1, ProgramID: seeded.ProgramID,
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)

	_, err = f.students.SaveStudent(ctx, &models.Student{
		IDNumber: "2025-0009", FirstName: "Jane", LastName: "Doe",
		Gender: models.GenderFemale, Year: 1, ProgramID: seeded.ProgramID + 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "student"))
}

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.RegisterUser(ctx, RegisterUserRequest{Username: " admin ", Email: "Admin@Example.com", Password: "long enough"})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, auth.CheckPassword(u.Password, "long enough"))

	_, err = f.users.RegisterUser(ctx, RegisterUserRequest{Username: "admin", Email: "x@example.com", Password: "long enough"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = f.users.RegisterUser(ctx, RegisterUserRequest{Username: "bob", Email: "not-an-email", Password: "long enough"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.users.RegisterUser(ctx, RegisterUserRequest{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
