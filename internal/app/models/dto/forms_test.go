package dto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/validation"
)

func TestProgramForm_ToModel(t *testing.T) {
	colleges := []models.Choice{{ID: 3, Label: "Engineering"}}

	tests := []struct {
		name     string
		form     ProgramForm
		want     *models.Program
		wantErrs validation.FieldErrors
	}{
		{
			name:     "create",
			form:     ProgramForm{Code: "P01", Name: "Test", CollegeID: "3"},
			want:     &models.Program{Code: "P01", Name: "Test", CollegeID: 3},
			wantErrs: validation.FieldErrors{},
		},
		{
			name:     "update",
			form:     ProgramForm{ID: "12", Code: "P01", Name: "Test", CollegeID: "3"},
			want:     &models.Program{ID: 12, Code: "P01", Name: "Test", CollegeID: 3},
			wantErrs: validation.FieldErrors{},
		},
		{
			name:     "unknown college",
			form:     ProgramForm{Code: "P01", Name: "Test", CollegeID: "4"},
			want:     &models.Program{Code: "P01", Name: "Test"},
			wantErrs: validation.FieldErrors{"college_id": validation.MsgInvalidChoice},
		},
		{
			name:     "non numeric college and zero id",
			form:     ProgramForm{ID: "0", Code: "P01", Name: "Test", CollegeID: "abc"},
			want:     &models.Program{Code: "P01", Name: "Test"},
			wantErrs: validation.FieldErrors{"college_id": validation.MsgInvalidChoice, "id": validation.MsgInvalidID},
		},
		{
			name:     "ids beyond the column range",
			form:     ProgramForm{ID: "3000000000", Code: "P01", Name: "Test", CollegeID: "4294967299"},
			want:     &models.Program{Code: "P01", Name: "Test"},
			wantErrs: validation.FieldErrors{"college_id": validation.MsgInvalidChoice, "id": validation.MsgInvalidID},
		},
		{
			name:     "empty college left to required rule",
			form:     ProgramForm{Code: "P01", Name: "Test"},
			want:     &models.Program{Code: "P01", Name: "Test"},
			wantErrs: validation.FieldErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := tt.form.ToModel(colleges)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("program mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}

func TestStudentForm_RoundTrip(t *testing.T) {
	s := &models.Student{ID: 5, IDNumber: "2025-0001", FirstName: "John", LastName: "Doe",
		Gender: models.GenderMale, Year: 2, ProgramID: 9}

	form := NewStudentForm(s)
	assert.Equal(t, "5", form.ID)
	assert.Equal(t, "2", form.Year)

	got, errs := form.ToModel([]models.Choice{{ID: 9, Label: "Test"}})
	assert.False(t, errs.HasErrors())
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("student mismatch (-want +got):\n%s", diff)
	}
}

func TestCollegeForm_NewHasEmptyID(t *testing.T) {
	form := NewCollegeForm(&models.College{Code: "C01", Name: "Test"})
	assert.Equal(t, "", form.ID)

	c, errs := form.ToModel()
	assert.False(t, errs.HasErrors())
	assert.Equal(t, int64(0), c.ID)
}
