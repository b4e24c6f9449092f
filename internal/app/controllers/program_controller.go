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

const programsPath = "/user/programs"

var programsPage = page{template: "programs.html", title: "Programs", currentPage: "programs"}

// ProgramController handles program pages and actions
type ProgramController struct {
	programService services.ProgramService
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService services.ProgramService) *ProgramController {
	return &ProgramController{
		programService: programService,
	}
}

// ListPrograms shows the program list and form
func (c *ProgramController) ListPrograms(ctx *gin.Context) {
	form := dto.ProgramForm{}
	choices, err := c.programService.CollegeChoices(ctx.Request.Context())
	if err != nil {
		c.renderLoadFailure(ctx, err)
		return
	}

	if edit := ctx.Query("edit"); edit != "" {
		id := parseRecordID(edit)
		program, err := c.programService.GetProgramByID(ctx.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				redirectNotFound(ctx, programsPath, apperrors.ErrProgramNotFound)
				return
			}
			c.renderLoadFailure(ctx, err)
			return
		}
		form = dto.NewProgramForm(program)
	}

	c.renderPage(ctx, http.StatusOK, form, choices, nil, "")
}

// SaveProgram creates a program, or updates one when the hidden id is set.
// College choices are loaded before validation so college_id is checked
// against the current colleges.
func (c *ProgramController) SaveProgram(ctx *gin.Context) {
	choices, err := c.programService.CollegeChoices(ctx.Request.Context())
	if err != nil {
		c.renderLoadFailure(ctx, err)
		return
	}

	var form dto.ProgramForm
	errs := middleware.BindForm(ctx, &form)
	program, modelErrs := form.ToModel(choices)
	errs.Merge(modelErrs)

	if errs.HasErrors() {
		c.renderPage(ctx, http.StatusBadRequest, form, choices, errs, errs[""])
		return
	}

	if _, err := c.programService.SaveProgram(ctx.Request.Context(), program); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCollegeNotFound):
			// the college disappeared after choices were loaded
			c.renderPage(ctx, http.StatusBadRequest, form, choices,
				validation.FieldErrors{"college_id": validation.MsgInvalidChoice}, "")
		case errors.Is(err, apperrors.ErrResourceNotFound):
			redirectNotFound(ctx, programsPath, err)
		default:
			status, fieldErrs, msg := saveFailure(ctx, err, "code")
			c.renderPage(ctx, status, form, choices, fieldErrs, msg)
		}
		return
	}

	redirectWithFlash(ctx, programsPath, auth.FlashSuccess, "Program saved")
}

// DeleteProgram deletes a program that has no students
func (c *ProgramController) DeleteProgram(ctx *gin.Context) {
	id := parseRecordID(ctx.Param("id"))
	if id == 0 {
		middleware.HandleActionError(ctx, apperrors.ErrProgramNotFound, "Failed to delete program")
		return
	}

	if err := c.programService.DeleteProgram(ctx.Request.Context(), id); err != nil {
		middleware.HandleActionError(ctx, err, "Failed to delete program")
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResponse{Success: true, Message: "Program deleted"})
}

func (c *ProgramController) renderPage(ctx *gin.Context, status int, form dto.ProgramForm, choices []models.Choice,
	errs validation.FieldErrors, formError string) {
	programs, err := c.programService.ListPrograms(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to list programs")
		status, formError = http.StatusInternalServerError, msgLoadFailed
	}
	if errs == nil {
		errs = validation.FieldErrors{}
	}

	render(ctx, status, programsPage, gin.H{
		"Form":           form,
		"Errors":         errs,
		"FormError":      formError,
		"Programs":       programs,
		"CollegeChoices": choices,
	})
}

func (c *ProgramController) renderLoadFailure(ctx *gin.Context, err error) {
	logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to load program page")
	c.renderPage(ctx, http.StatusInternalServerError, dto.ProgramForm{}, nil, nil, msgLoadFailed)
}
