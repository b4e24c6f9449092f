package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

const collegesPath = "/user/colleges"

var collegesPage = page{template: "colleges.html", title: "Colleges", currentPage: "colleges"}

// CollegeController handles college pages and actions
type CollegeController struct {
	collegeService services.CollegeService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService services.CollegeService) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
	}
}

// ListColleges shows the college list with an empty form, or with the form
// filled from ?edit=<id>
func (c *CollegeController) ListColleges(ctx *gin.Context) {
	form := dto.CollegeForm{}

	if edit := ctx.Query("edit"); edit != "" {
		id := parseRecordID(edit)
		college, err := c.collegeService.GetCollegeByID(ctx.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				redirectNotFound(ctx, collegesPath, apperrors.ErrCollegeNotFound)
				return
			}
			c.renderPage(ctx, http.StatusInternalServerError, form, nil, msgLoadFailed)
			return
		}
		form = dto.NewCollegeForm(college)
	}

	c.renderPage(ctx, http.StatusOK, form, nil, "")
}

// SaveCollege creates a college, or updates one when the hidden id is set
func (c *CollegeController) SaveCollege(ctx *gin.Context) {
	var form dto.CollegeForm
	errs := middleware.BindForm(ctx, &form)
	college, modelErrs := form.ToModel()
	errs.Merge(modelErrs)

	if errs.HasErrors() {
		c.renderPage(ctx, http.StatusBadRequest, form, errs, errs[""])
		return
	}

	if _, err := c.collegeService.SaveCollege(ctx.Request.Context(), college); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			redirectNotFound(ctx, collegesPath, err)
			return
		}
		status, fieldErrs, msg := saveFailure(ctx, err, "code")
		c.renderPage(ctx, status, form, fieldErrs, msg)
		return
	}

	redirectWithFlash(ctx, collegesPath, auth.FlashSuccess, "College saved")
}

// DeleteCollege deletes a college that has no programs
func (c *CollegeController) DeleteCollege(ctx *gin.Context) {
	id := parseRecordID(ctx.Param("id"))
	if id == 0 {
		middleware.HandleActionError(ctx, apperrors.ErrCollegeNotFound, "Failed to delete college")
		return
	}

	if err := c.collegeService.DeleteCollege(ctx.Request.Context(), id); err != nil {
		middleware.HandleActionError(ctx, err, "Failed to delete college")
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResponse{Success: true, Message: "College deleted"})
}

func (c *CollegeController) renderPage(ctx *gin.Context, status int, form dto.CollegeForm, errs validation.FieldErrors, formError string) {
	colleges, err := c.collegeService.ListColleges(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to list colleges")
		status, formError = http.StatusInternalServerError, msgLoadFailed
	}
	if errs == nil {
		errs = validation.FieldErrors{}
	}

	render(ctx, status, collegesPage, gin.H{
		"Form":      form,
		"Errors":    errs,
		"FormError": formError,
		"Colleges":  colleges,
	})
}
