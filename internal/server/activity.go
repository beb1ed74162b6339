package server

import (
	"net/http"

	"habiterr/internal/models"
	"habiterr/internal/services"
)

type activityRequest struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

func (s *Server) getActivityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, uid := r.Context(), userID(r)
	q := r.URL.Query()

	if day := q.Get("day"); day != "" {
		a, err := s.ledger.GetDay(ctx, uid, day)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
		return
	}

	// A missing from is open ended; a missing to means today.
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		rows, err := s.ledger.ListRange(ctx, uid, from, to)
		s.writeRows(w, r, rows, err)
		return
	}

	var rows []models.Activity
	var err error
	switch rng := q.Get("range"); rng {
	case "":
		windows, err := s.ledger.Windows(ctx, uid)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, windows)
		return
	case "weekly":
		rows, err = s.ledger.Window(ctx, uid, services.WeeklyWindowDays)
	case "heatmap":
		rows, err = s.ledger.Window(ctx, uid, services.HeatmapWindowDays)
	case "all":
		rows, err = s.ledger.ListAll(ctx, uid)
	default:
		err = badRequest("unknown range %q", rng)
	}
	s.writeRows(w, r, rows, err)
}

func (s *Server) writeRows(w http.ResponseWriter, r *http.Request, rows []models.Activity, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) upsertActivityHandler(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, created, err := s.ledger.Upsert(r.Context(), userID(r), req.Day, req.Completed, req.Total)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, a)
}

func (s *Server) patchActivityHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.ActivityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.ledger.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) deleteActivityHandler(w http.ResponseWriter, r *http.Request) {
	id := pathOrQueryID(r)
	if id == "" {
		writeError(w, r, badRequest("id is required"))
		return
	}
	if err := s.ledger.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, DeletedCount: 1})
}
