package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// Shown instead of internal error details
const (
	msgSaveFailed = "An unexpected error occurred while saving. Please try again."
	msgLoadFailed = "Could not load records. Please try again."
)

// page identifies a template and its navigation entry
type page struct {
	template    string
	title       string
	currentPage string
}

// render executes a page template with the shared layout fields filled in.
func render(ctx *gin.Context, status int, p page, data gin.H) {
	data["Title"] = p.title
	data["CurrentPage"] = p.currentPage
	data["Flashes"] = middleware.GetFlashes(ctx)
	data["Search"] = ctx.Query("q")
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.FieldErrors{}
	}
	ctx.HTML(status, p.template, data)
}

// saveFailure decides how a failed save is shown on the re-rendered form.
// Uniqueness conflicts are attached to uniqueField; anything unexpected is
// logged and replaced by a generic message.
func saveFailure(ctx *gin.Context, err error, uniqueField string) (int, validation.FieldErrors, string) {
	if errors.Is(err, apperrors.ErrConflict) {
		return http.StatusConflict, validation.FieldErrors{uniqueField: apperrors.Message(err, "Already exists")}, ""
	}

	logger.FromContext(ctx.Request.Context()).Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Failed to save record")
	_ = ctx.Error(err)
	return http.StatusInternalServerError, validation.FieldErrors{}, msgSaveFailed
}

// redirectWithFlash queues a message and redirects to location (post/redirect/get).
func redirectWithFlash(ctx *gin.Context, location, category, message string) {
	middleware.AddFlash(ctx, category, message)
	ctx.Redirect(http.StatusFound, location)
}

// redirectNotFound handles a missing record on a page request
func redirectNotFound(ctx *gin.Context, location string, err error) {
	redirectWithFlash(ctx, location, auth.FlashDanger, apperrors.Message(err, "Record not found"))
}

// parseRecordID reads a path or query id. Ids are 32-bit in the schema, so
// anything unparsable or out of that range comes back as 0 and is treated
// as not found.
func parseRecordID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
