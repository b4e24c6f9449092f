package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

const studentsPath = "/user/students"

var studentsPage = page{template: "students.html", title: "Students", currentPage: "students"}

// StudentController handles student pages and actions
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// ListStudents shows the student list and form
func (c *StudentController) ListStudents(ctx *gin.Context) {
	form := dto.StudentForm{Year: "1", Gender: string(models.GenderMale)}
	choices, err := c.studentService.ProgramChoices(ctx.Request.Context())
	if err != nil {
		c.renderLoadFailure(ctx, err)
		return
	}

	if edit := ctx.Query("edit"); edit != "" {
		id := parseRecordID(edit)
		student, err := c.studentService.GetStudentByID(ctx.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				redirectNotFound(ctx, studentsPath, apperrors.ErrStudentNotFound)
				return
			}
			c.renderLoadFailure(ctx, err)
			return
		}
		form = dto.NewStudentForm(student)
	}

	c.renderPage(ctx, http.StatusOK, form, choices, nil, "")
}

// SaveStudent creates a student, or updates one when the hidden id is set
func (c *StudentController) SaveStudent(ctx *gin.Context) {
	choices, err := c.studentService.ProgramChoices(ctx.Request.Context())
	if err != nil {
		c.renderLoadFailure(ctx, err)
		return
	}

	var form dto.StudentForm
	errs := middleware.BindForm(ctx, &form)
	student, modelErrs := form.ToModel(choices)
	errs.Merge(modelErrs)

	if errs.HasErrors() {
		c.renderPage(ctx, http.StatusBadRequest, form, choices, errs, errs[""])
		return
	}

	if _, err := c.studentService.SaveStudent(ctx.Request.Context(), student); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProgramNotFound):
			c.renderPage(ctx, http.StatusBadRequest, form, choices,
				validation.FieldErrors{"program_id": validation.MsgInvalidChoice}, "")
		case errors.Is(err, apperrors.ErrResourceNotFound):
			redirectNotFound(ctx, studentsPath, err)
		default:
			status, fieldErrs, msg := saveFailure(ctx, err, "id_number")
			c.renderPage(ctx, status, form, choices, fieldErrs, msg)
		}
		return
	}

	redirectWithFlash(ctx, studentsPath, auth.FlashSuccess, "Student saved")
}

// DeleteStudent deletes a student
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id := parseRecordID(ctx.Param("id"))
	if id == 0 {
		middleware.HandleActionError(ctx, apperrors.ErrStudentNotFound, "Failed to delete student")
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleActionError(ctx, err, "Failed to delete student")
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResponse{Success: true, Message: "Student deleted"})
}

func (c *StudentController) renderPage(ctx *gin.Context, status int, form dto.StudentForm, choices []models.Choice,
	errs validation.FieldErrors, formError string) {
	students, err := c.studentService.ListStudents(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to list students")
		status, formError = http.StatusInternalServerError, msgLoadFailed
	}
	if errs == nil {
		errs = validation.FieldErrors{}
	}

	render(ctx, status, studentsPage, gin.H{
		"Form":           form,
		"Errors":         errs,
		"FormError":      formError,
		"Students":       students,
		"ProgramChoices": choices,
	})
}

func (c *StudentController) renderLoadFailure(ctx *gin.Context, err error) {
	logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to load student page")
	c.renderPage(ctx, http.StatusInternalServerError, dto.StudentForm{}, nil, nil, msgLoadFailed)
}
