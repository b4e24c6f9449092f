package views

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/yigit/registrar/internal/app/models"
)

//go:embed templates/*.html
var files embed.FS

// Load parses the embedded page templates. Pages are addressed by file name,
// e.g. "colleges.html".
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"idstr": func(id int64) string { return strconv.FormatInt(id, 10) },
		"genders": func() []models.Gender { return models.Genders },
		"years":   func() []int { return models.Years },
		"itoa":    strconv.Itoa,
	}
}
