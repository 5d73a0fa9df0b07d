package web

import (
	"context"
	"net/http"

	"artistinfo/internal/logger"
	"artistinfo/internal/pipeline"
)

type Server struct {
	ctx    context.Context
	jobMgr *JobManager
	svcs   *pipeline.Services
	logger *logger.Logger
}

func NewServer(ctx context.Context, jobMgr *JobManager, svcs *pipeline.Services, log *logger.Logger) *Server {
	return &Server{
		ctx:    ctx,
		jobMgr: jobMgr,
		svcs:   svcs,
		logger: log,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	// API endpoints
	mux.HandleFunc("/api/enrich", s.handleEnrich)
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/api/cache", s.handleCacheStats)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
