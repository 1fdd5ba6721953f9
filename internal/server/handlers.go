package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/meltforce/rowplan/internal/csvexport"
	"github.com/meltforce/rowplan/internal/models"
)

// errGenerateFailed is the only failure detail returned to API callers.
const errGenerateFailed = "Failed to generate workouts"

func (s *Server) handleGenerateWorkouts(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	plan, err := s.gen.Generate(r.Context(), req.Periods)
	if err != nil {
		s.log.Error("error generating workouts", "periods", len(req.Periods), "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: errGenerateFailed})
		return
	}
	if plan == nil {
		plan = models.WorkoutPlan{}
	}

	writeJSON(w, http.StatusOK, models.GenerateResponse{Workouts: plan})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	now := s.now()

	if r.URL.Query().Get("format") == "xlsx" {
		data, err := csvexport.RenderXLSX(req.Workouts)
		if err != nil {
			s.log.Error("xlsx export", "error", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "export failed"})
			return
		}
		writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", csvexport.XLSXFilename(now), data)
		return
	}

	writeAttachment(w, "text/csv; charset=utf-8", csvexport.Filename(now), []byte(csvexport.Render(req.Workouts)))
}

func (s *Server) handleIntensities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.IntensityCatalog())
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if s.genLog == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "generation log disabled"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := s.genLog.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("query generations", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type healthResponse struct {
	Status            string `json:"status"`
	Provider          string `json:"provider"`
	ProviderAvailable bool   `json:"provider_available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:            "ok",
		Provider:          s.provider,
		ProviderAvailable: s.gen.Available(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
