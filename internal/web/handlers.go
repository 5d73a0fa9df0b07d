package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"artistinfo/internal/enrich"
	"artistinfo/internal/pipeline"
)

type EnrichRequest struct {
	Artist string `json:"artist"`
	MBID   string `json:"mbid,omitempty"`
}

type SettingsRequest struct {
	Provider  string `json:"provider"`
	APIKey    string `json:"api_key,omitempty"`
	APISecret string `json:"api_secret,omitempty"`
}

type JobResponse struct {
	ID          string           `json:"id"`
	Artist      string           `json:"artist"`
	MBID        string           `json:"mbid,omitempty"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"`
	Total       int              `json:"total"`
	Error       string           `json:"error,omitempty"`
	Result      *pipeline.Report `json:"result,omitempty"`
	CreatedAt   string           `json:"created_at"`
	StartedAt   *string          `json:"started_at,omitempty"`
	CompletedAt *string          `json:"completed_at,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Artist == "" {
		http.Error(w, "Artist is required", http.StatusBadRequest)
		return
	}

	// Create job
	job := s.jobMgr.CreateJob(req.Artist, req.MBID)
	s.logger.Info("Created job %s for artist: %s", job.ID, req.Artist)

	// Start enrichment in background
	go s.processJob(job)

	// Return job info
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = s.jobToResponse(job)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	// Extract job ID from path: /api/jobs/{id} or /api/jobs/{id}/cancel
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	// Handle GET /api/jobs/{id}
	if r.Method == http.MethodGet && len(parts) == 1 {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.jobToResponse(job))
		return
	}

	// Handle POST /api/jobs/{id}/cancel
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if job.Cancel != nil {
			job.Cancel()
		}

		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			j.Status = StatusCancelled
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type cacheStats struct {
		Size         int    `json:"size"`
		OldestExpiry string `json:"oldest_expiry,omitempty"`
	}

	stats := make(map[string]cacheStats)
	for name, st := range s.svcs.CacheStats() {
		entry := cacheStats{Size: st.Size}
		if !st.OldestExpiry.IsZero() {
			entry.OldestExpiry = st.OldestExpiry.Format("2006-01-02 15:04:05")
		}
		stats[name] = entry
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Provider == "" {
		http.Error(w, "Provider is required", http.StatusBadRequest)
		return
	}

	settings := enrich.Settings{APIKey: req.APIKey, APISecret: req.APISecret}
	if err := s.svcs.UpdateSettings(req.Provider, settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
}

func (s *Server) processJob(job *Job) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Timeline and gallery lookups, one progress tick each
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = cancel
		j.Status = StatusRunning
		j.Total = 2
	})

	s.logger.Info("Starting job %s", job.ID)

	hooks := pipeline.Hooks{
		OnProgress: func() {
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.Progress++
			})
		},
	}

	report, err := s.svcs.EnrichArtist(ctx, job.Artist, job.MBID, hooks)
	if err != nil {
		s.logger.Error("Enrichment failed: %v", err)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			if j.Status != StatusCancelled {
				j.Status = StatusFailed
				j.Error = err.Error()
			}
		})
		return
	}

	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		if j.Status != StatusCancelled {
			j.Status = StatusCompleted
			j.Result = &report
		}
	})

	s.logger.Info("Job %s completed successfully", job.ID)
}

func (s *Server) jobToResponse(job *Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Artist:    job.Artist,
		MBID:      job.MBID,
		Status:    job.Status,
		Progress:  job.Progress,
		Total:     job.Total,
		Error:     job.Error,
		Result:    job.Result,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format("2006-01-02 15:04:05")
		resp.StartedAt = &started
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &completed
	}

	return resp
}
