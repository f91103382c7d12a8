package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/render"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Reports use pipe tables, so the table extension is required.
var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Server is the HTTP server for browsing generated reports.
type Server struct {
	dir   string
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server over the given reports directory.
func New(reportsDir string) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":     renderMarkdown,
		"formatPeriod": review.FormatPeriodDisplay,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "report.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{dir: reportsDir, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/report/", s.handleReport)
}

type reportEntry struct {
	PeriodID string
}

// listReports scans the reports directory for rendered reports. A missing
// directory just means no reports have been generated yet.
func (s *Server) listReports() ([]reportEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var reports []reportEntry
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "trends-") || !strings.HasSuffix(name, ".md") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, "trends-"), ".md")
		reports = append(reports, reportEntry{PeriodID: id})
	}

	// Period IDs start with the ISO date, so a reverse sort puts the most
	// recent period first.
	sort.Slice(reports, func(i, j int) bool { return reports[i].PeriodID > reports[j].PeriodID })
	return reports, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	reports, err := s.listReports()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Reports": reports,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	periodID := strings.TrimPrefix(r.URL.Path, "/report/")
	if periodID == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	// Period IDs never contain path separators; anything else is someone
	// poking at the filesystem.
	if strings.ContainsAny(periodID, `/\`) {
		http.NotFound(w, r)
		return
	}

	data := map[string]any{"PeriodID": periodID, "Found": false, "Content": ""}
	raw, err := os.ReadFile(filepath.Join(s.dir, render.Filename(periodID)))
	if err == nil {
		data["Found"] = true
		data["Content"] = string(raw)
	} else if !os.IsNotExist(err) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "report.html", data)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(reportsDir string, port int) error {
	srv, err := New(reportsDir)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
