package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// maxFormMemory matches gin's limit for multipart parsing during binding
const maxFormMemory = 32 << 20

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator. It is safe
// to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warn().Msg("Binding validator is not go-playground/validator, custom rules not registered")
			return
		}
		if err := validation.RegisterRules(v); err != nil {
			logger.Error().Err(err).Msg("Failed to register validation rules")
		}
	})
}

// BindForm trims every submitted value and binds the form into obj. Rule
// violations come back as field messages; a malformed body is reported on
// the form as a whole under the "" key.
func BindForm(c *gin.Context, obj any) validation.FieldErrors {
	RegisterValidators()

	errs := validation.FieldErrors{}
	// Multipart bodies are parsed here so binding does not re-read them
	// untrimmed.
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		errs.Add("", "Invalid form submission.")
		return errs
	}
	trimValues(c.Request.PostForm)
	trimValues(c.Request.Form)
	if c.Request.MultipartForm != nil {
		trimValues(c.Request.MultipartForm.Value)
	}

	if err := c.ShouldBindWith(obj, binding.Form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validation.FromValidationErrors(verrs)
		}
		errs.Add("", "Invalid form submission.")
	}
	return errs
}

func trimValues(values map[string][]string) {
	for key, vals := range values {
		for i, v := range vals {
			vals[i] = strings.TrimSpace(v)
		}
		values[key] = vals
	}
}
