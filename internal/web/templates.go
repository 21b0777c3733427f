package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/starford/mannaz/internal/models"
	"github.com/starford/mannaz/internal/postservice"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"imageURL": imageURL,
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
}).ParseFS(templateFS, "templates/*.html"))

// imageURL resolves a post's image to something a browser can fetch: the
// hosted URL for remote-backed images, the /media route for local ones.
func imageURL(p models.Post) string {
	if p.ImageKey != "" {
		return p.ImageRef
	}
	if p.ImageRef != "" {
		return "/media/" + p.ImageRef
	}
	return ""
}

type listView struct {
	Flash string
	Page  *postservice.Page
}

type loginView struct {
	Flash string
}

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
