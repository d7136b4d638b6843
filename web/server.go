// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"memberdir/config"
	"memberdir/directory"
	"memberdir/importer"
	"memberdir/member"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTemplate = template.Must(template.New("base.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/index.html", "templates/results.html"))
	resultsTemplate = template.Must(template.New("results.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/results.html"))
)

var templateFuncs = template.FuncMap{
	"avatar": member.AvatarURL,
}

const uploadMemoryBytes = 8 << 20

var errMissingUpload = errors.New("missing file upload")

type Server struct {
	session *directory.Session
	cfg     config.Config
	mux     *http.ServeMux
}

type indexPageView struct {
	Title    string
	Loaded   bool
	Busy     bool
	LastFile string
	Error    string
	Total    int
	Results  resultsView
}

type resultsView struct {
	Query   string
	Count   int
	Members []member.Member
}

type statusResponse struct {
	State        string     `json:"state"`
	Busy         bool       `json:"busy"`
	LastFile     string     `json:"lastFile,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	Query        string     `json:"query"`
	CollectionID string     `json:"collectionId,omitempty"`
	LoadedAt     *time.Time `json:"loadedAt,omitempty"`
	Members      int        `json:"members"`
	RowsRead     int        `json:"rowsRead"`
	RowsSkipped  int        `json:"rowsSkipped"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []member.Member `json:"results"`
}

type uploadResponse struct {
	CollectionID string `json:"collectionId"`
	SourceFile   string `json:"sourceFile"`
	Members      int    `json:"members"`
	RowsRead     int    `json:"rowsRead"`
	RowsSkipped  int    `json:"rowsSkipped"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(session *directory.Session, cfg config.Config) http.Handler {
	server := &Server{
		session: session,
		cfg:     cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("POST /upload", server.handleUpload)
	mux.HandleFunc("GET /results", server.handleResults)
	mux.HandleFunc("GET /api/status", server.handleAPIStatus)
	mux.HandleFunc("GET /api/search", server.handleAPISearch)
	mux.HandleFunc("POST /api/upload", server.handleAPIUpload)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, err := s.loadUpload(w, r); err != nil {
		s.renderIndex(w, uploadErrorStatus(err), importer.UserMessage(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := s.session.Search(query)

	var buf bytes.Buffer
	view := resultsView{Query: query, Count: len(results), Members: results}
	if err := resultsTemplate.ExecuteTemplate(&buf, "results", view); err != nil {
		http.Error(w, fmt.Sprintf("render results: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := s.session.Snapshot()
	resp := statusResponse{
		State:     snapshot.State.String(),
		Busy:      snapshot.Busy,
		LastFile:  snapshot.LastFile,
		LastError: snapshot.LastError,
		Query:     snapshot.Query,
	}
	if collection := snapshot.Collection; collection != nil {
		loadedAt := collection.LoadedAt
		resp.CollectionID = collection.ID
		resp.LoadedAt = &loadedAt
		resp.Members = collection.Len()
		resp.RowsRead = collection.RowsRead
		resp.RowsSkipped = collection.RowsSkipped
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := s.session.Search(query)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	collection, err := s.loadUpload(w, r)
	if err != nil {
		writeJSON(w, uploadErrorStatus(err), errorResponse{Error: importer.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		CollectionID: collection.ID,
		SourceFile:   collection.SourceFile,
		Members:      collection.Len(),
		RowsRead:     collection.RowsRead,
		RowsSkipped:  collection.RowsSkipped,
	})
}

// loadUpload hands the multipart "file" field to the session.
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request) (*member.Collection, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Intake.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(uploadMemoryBytes); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errMissingUpload
	}
	defer file.Close()

	return s.session.Load(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
}

// uploadErrorStatus maps intake failures to a status code. Empty files,
// parser errors and malformed forms are all plain bad requests.
func uploadErrorStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, directory.ErrLoadInProgress):
		return http.StatusConflict
	case errors.Is(err, importer.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// renderIndex renders the full page. errorText overrides the session's last
// load error for failures that never reached the session.
func (s *Server) renderIndex(w http.ResponseWriter, status int, errorText string) {
	snapshot := s.session.Snapshot()
	if errorText == "" {
		errorText = snapshot.LastError
	}
	view := indexPageView{
		Title:    "دليل الأعضاء",
		Loaded:   snapshot.State == directory.Loaded,
		Busy:     snapshot.Busy,
		LastFile: snapshot.LastFile,
		Error:    errorText,
		Total:    snapshot.Collection.Len(),
		Results: resultsView{
			Query:   snapshot.Query,
			Count:   len(snapshot.Results),
			Members: snapshot.Results,
		},
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "base", view); err != nil {
		http.Error(w, fmt.Sprintf("render page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
