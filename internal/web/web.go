package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"syllabuscal/internal/config"
	appLog "syllabuscal/internal/log"
	"syllabuscal/internal/model"
	"syllabuscal/internal/schedule"
	"syllabuscal/internal/uploads"
)

// Extractor is the document-extraction collaborator: it turns a spooled
// syllabus file into structured course data.
type Extractor interface {
	Extract(ctx context.Context, path, filename, startDate, endDate string) (model.CourseData, error)
}

// Server wires the upload endpoint to the extractor and the schedule
// compiler.
type Server struct {
	cfg       *config.Config
	extractor Extractor
	store     *uploads.Store
	router    *mux.Router
}

const maxUploadBytes = 20 << 20

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, extractor Extractor, store *uploads.Store) *Server {
	s := &Server{
		cfg:       cfg,
		extractor: extractor,
		store:     store,
		router:    mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/generate-calendar", s.handleGenerate).Methods(http.MethodPost)
}

// Handler returns the router wrapped with permissive CORS; the frontend is
// served from a different origin.
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(s.router)
}

// StartServer serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config, extractor Extractor, store *uploads.Store) error {
	s := NewServer(cfg, extractor, store)
	srv := &http.Server{
		Handler: s.Handler(),
		Addr:    cfg.Listen,
		// Extraction calls out to the LLM collaborator, so the write
		// timeout is generous.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	appLog.Info("http server listening", "addr", "http://"+cfg.Listen)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleGenerate accepts a multipart syllabus upload plus scheduling
// parameters and responds with the generated calendar file.
//
// Form fields: file, start_date, end_date, lecture_reminder,
// exam_reminder, assignment_reminder; optional school_timezone and
// user_timezone override the configured zones.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing syllabus file")
		return
	}
	defer file.Close()

	startDate := r.FormValue("start_date")
	endDate := r.FormValue("end_date")
	if startDate == "" || endDate == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	reminders := model.ReminderConfig{
		Lecture:    formIntDefault(r, "lecture_reminder", s.cfg.Reminders.Lecture),
		Exam:       formIntDefault(r, "exam_reminder", s.cfg.Reminders.Exam),
		Assignment: formIntDefault(r, "assignment_reminder", s.cfg.Reminders.Assignment),
	}
	tz := model.TimezoneConfig{
		School: formDefault(r, "school_timezone", s.cfg.SchoolTimezone),
		User:   formDefault(r, "user_timezone", s.cfg.UserTimezone),
	}

	path, err := s.store.Save(file, header.Filename)
	if err != nil {
		appLog.Error("spool upload failed", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer s.store.Remove(path)

	appLog.Info("processing syllabus", "filename", header.Filename, "size", header.Size)

	course, err := s.extractor.Extract(ctx, path, header.Filename, startDate, endDate)
	if err != nil {
		appLog.Error("extraction failed", err, "filename", header.Filename)
		writeError(w, http.StatusBadGateway, "syllabus extraction failed")
		return
	}

	result, err := schedule.Compile(course, reminders, tz)
	if err != nil {
		appLog.Error("compile failed", err, "course", course.CourseCode)
		writeError(w, http.StatusUnprocessableEntity, "failed to build calendar")
		return
	}

	for _, sk := range result.Skipped {
		appLog.Info("entry skipped", "title", sk.Title, "reason", sk.Reason)
	}
	appLog.Info("calendar generated",
		"course", course.CourseCode,
		"events", result.Events,
		"skipped", len(result.Skipped),
	)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="syllabus_schedule.ics"`)
	w.Header().Set("X-Skipped-Entries", strconv.Itoa(len(result.Skipped)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.ICS))
}

func formDefault(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

func formIntDefault(r *http.Request, key string, def int) int {
	v := r.FormValue(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errResp{Error: msg}); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
