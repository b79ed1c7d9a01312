package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/vncsmyrnk/premios/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex   = "index"
	pageDetail  = "detail"
	pageResults = "results"
)

// pages holds one template set per page so each can define its own content block.
var pages = parsePages(pageIndex, pageDetail, pageResults)

func parsePages(names ...string) map[string]*template.Template {
	sets := make(map[string]*template.Template, len(names))
	for _, name := range names {
		sets[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return sets
}

type indexPage struct {
	Questions []domain.Question
}

type questionPage struct {
	Question     *domain.Question
	ErrorMessage string
}

// render executes the page into a buffer first so a template error never
// leaves a half written response.
func render(w http.ResponseWriter, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
