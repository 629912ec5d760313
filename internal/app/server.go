package app

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Server routes HTTP requests to a Service
type Server struct {
	svc         *Service
	auth        *Credentials
	logRequests bool
	mux         *http.ServeMux
}

// NewServer builds the route table. auth may be nil.
func NewServer(svc *Service, auth *Credentials, logRequests bool) *Server {
	s := &Server{
		svc:         svc,
		auth:        auth,
		logRequests: logRequests,
		mux:         http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.HandleRoot)

	s.mux.HandleFunc("POST /method", s.HandleMethodPost)
	s.mux.HandleFunc("GET /method", s.HandleMethod)
	s.mux.HandleFunc("PUT /method", s.HandleMethod)
	s.mux.HandleFunc("OPTIONS /method", s.HandleMethod)
	s.mux.HandleFunc("DELETE /method", s.HandleMethod)

	s.mux.HandleFunc("GET /day", s.HandleDay)
	s.mux.HandleFunc("GET /day/{$}", s.HandleDay)

	// Writes are protected when an auth file is loaded
	s.mux.HandleFunc("PUT /events", s.auth.RequireAuth(s.HandleAddEvent))
	s.mux.HandleFunc("GET /events/{date}", s.HandleEventsByDate)
	s.mux.HandleFunc("GET /events/{date}/export", s.HandleExport)

	s.mux.HandleFunc("GET /start", s.HandleStart)
	s.mux.HandleFunc("GET /info", s.HandleInfo)
	s.mux.HandleFunc("GET /v1/info", s.HandleLegacyInfo)
	s.mux.HandleFunc("POST /check", s.HandleCheck)

	s.mux.HandleFunc("GET /healthz", s.HandleHealthz)
}

// Handler returns the mux wrapped in the request-ID and logging middleware
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.mux)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if s.logRequests {
			log.Printf("%s %s %d %dms request_id=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds(), id)
		}
	})
}
