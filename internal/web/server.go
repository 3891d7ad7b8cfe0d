package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ycliao/jobtrack/internal/config"
	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	store     *store.Store
	cfg       *config.Config
	router    *http.ServeMux
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(st *store.Store, cfg *config.Config) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		store:     st,
		cfg:       cfg,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	s.router.Handle("/static/", http.StripPrefix("/static/", fileServer))
	s.router.Handle("/", fileServer)

	// HTMX-based routes
	s.router.HandleFunc("/dashboard", s.handleDashboard())

	for _, d := range domain.All() {
		s.router.HandleFunc("/"+string(d), s.handleDataset(d))
		s.router.HandleFunc("/"+string(d)+"/", s.handleDatasetRow(d))
	}

	// Data management routes
	s.router.HandleFunc("/data", s.handleDataPage())
	s.router.HandleFunc("/import", s.handlePostImport())
	s.router.HandleFunc("/export/workbook.xlsx", s.handleExportWorkbook())
	s.router.HandleFunc("/export/", s.handleExportCSV())
	s.router.HandleFunc("/backup", s.handlePostBackup())
}

// rowIndex parses the numeric position out of a path like
// /applications/3 or /applications/3/edit.
func rowIndex(path, prefix string) (int, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	idxStr, tail, _ := strings.Cut(rest, "/")
	idx, err := strconv.Atoi(idxStr)
	return idx, tail, err
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}
