// Package pages serves the browser UI. Pages are thin shells: all data moves
// through the JSON API using the session cookie.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/EmpoweredVote/civic-requests/internal/utils"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title string
}

func render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	// Render into a buffer so a template error still yields a clean 500.
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "render page", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func Login(w http.ResponseWriter, r *http.Request) {
	render(w, r, "login.html", pageData{Title: "Sign in"})
}

func Citizen(w http.ResponseWriter, r *http.Request) {
	render(w, r, "citizen.html", pageData{Title: "My requests"})
}

func Admin(w http.ResponseWriter, r *http.Request) {
	render(w, r, "admin.html", pageData{Title: "All requests"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// SetupRoutes mounts the pages. Role gating happens in middleware.RouteGate
// before these handlers run.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", Login)
	r.Get("/citizen", Citizen)
	r.Get("/admin", Admin)
	return r
}
