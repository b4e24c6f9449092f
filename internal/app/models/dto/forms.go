package dto

import (
	"strconv"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// Form DTOs bind the HTML forms. Ids and the year arrive as strings so that
// malformed input becomes a field message instead of a bind error.

// CollegeForm is the create/edit form for a college
type CollegeForm struct {
	ID   string `form:"id" binding:"omitempty,number"`
	Code string `form:"code" binding:"required,max=10"`
	Name string `form:"name" binding:"required,max=100"`
}

// NewCollegeForm fills the form from an existing college
func NewCollegeForm(c *models.College) CollegeForm {
	return CollegeForm{ID: formatID(c.ID), Code: c.Code, Name: c.Name}
}

// ToModel converts the bound form into a college
func (f CollegeForm) ToModel() (*models.College, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	id := parseID(f.ID, errs)
	return &models.College{ID: id, Code: f.Code, Name: f.Name}, errs
}

// ProgramForm is the create/edit form for a program
type ProgramForm struct {
	ID        string `form:"id" binding:"omitempty,number"`
	Code      string `form:"code" binding:"required,max=10"`
	Name      string `form:"name" binding:"required,max=100"`
	CollegeID string `form:"college_id" binding:"required"`
}

// NewProgramForm fills the form from an existing program
func NewProgramForm(p *models.Program) ProgramForm {
	return ProgramForm{ID: formatID(p.ID), Code: p.Code, Name: p.Name, CollegeID: formatID(p.CollegeID)}
}

// ToModel converts the bound form into a program. colleges are the current
// valid choices for college_id.
func (f ProgramForm) ToModel(colleges []models.Choice) (*models.Program, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	return &models.Program{
		ID:        parseID(f.ID, errs),
		Code:      f.Code,
		Name:      f.Name,
		CollegeID: parseChoice("college_id", f.CollegeID, colleges, errs),
	}, errs
}

// StudentForm is the create/edit form for a student
type StudentForm struct {
	ID        string `form:"id" binding:"omitempty,number"`
	IDNumber  string `form:"id_number" binding:"required,max=50,idnumber"`
	FirstName string `form:"first_name" binding:"required,max=100"`
	LastName  string `form:"last_name" binding:"required,max=100"`
	ProgramID string `form:"program_id" binding:"required"`
	Year      string `form:"year" binding:"required,oneof=1 2 3 4"`
	Gender    string `form:"gender" binding:"oneof=M F O"`
}

// NewStudentForm fills the form from an existing student
func NewStudentForm(s *models.Student) StudentForm {
	return StudentForm{
		ID:        formatID(s.ID),
		IDNumber:  s.IDNumber,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		ProgramID: formatID(s.ProgramID),
		Year:      strconv.Itoa(s.Year),
		Gender:    string(s.Gender),
	}
}

// ToModel converts the bound form into a student. programs are the current
// valid choices for program_id.
func (f StudentForm) ToModel(programs []models.Choice) (*models.Student, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	// year is already restricted to 1..4 by its binding rule
	year, _ := strconv.Atoi(f.Year)
	return &models.Student{
		ID:        parseID(f.ID, errs),
		IDNumber:  f.IDNumber,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Gender:    models.Gender(f.Gender),
		Year:      year,
		ProgramID: parseChoice("program_id", f.ProgramID, programs, errs),
	}, errs
}

// parseID reads the hidden id field. Empty means a new record.
func parseID(raw string, errs validation.FieldErrors) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		errs.Add("id", validation.MsgInvalidID)
		return 0
	}
	return id
}

// parseChoice coerces raw to an id and checks it against choices.
func parseChoice(field, raw string, choices []models.Choice, errs validation.FieldErrors) int64 {
	if raw == "" {
		// reported by the required rule
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err == nil {
		for _, c := range choices {
			if c.ID == id {
				return id
			}
		}
	}
	errs.Add(field, validation.MsgInvalidChoice)
	return 0
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
