package server

import (
	"net/http"

	"habiterr/internal/models"
	"habiterr/internal/services"
)

type putHabitRequest struct {
	ID string `json:"id"`
	models.HabitPatch
}

type deleteResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

func (s *Server) listHabitsHandler(w http.ResponseWriter, r *http.Request) {
	habits, err := s.habits.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) createHabitHandler(w http.ResponseWriter, r *http.Request) {
	var in services.HabitInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	h, err := s.habits.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) putHabitHandler(w http.ResponseWriter, r *http.Request) {
	var req putHabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == "" {
		writeError(w, r, badRequest("id is required"))
		return
	}
	s.updateHabit(w, r, req.ID, req.HabitPatch)
}

func (s *Server) patchHabitHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.HabitPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	s.updateHabit(w, r, r.PathValue("id"), patch)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request, id string, patch models.HabitPatch) {
	h, err := s.habits.Update(r.Context(), userID(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) deleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	id := pathOrQueryID(r)
	if id == "" {
		writeError(w, r, badRequest("id is required"))
		return
	}
	n, err := s.habits.Delete(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, DeletedCount: n})
}

func (s *Server) todayHabitsHandler(w http.ResponseWriter, r *http.Request) {
	habits, err := s.habits.Today(r.Context(), userID(r), r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) toggleHabitHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.ToggleHabit(r.Context(), userID(r), r.PathValue("id"), r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
