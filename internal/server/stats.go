package server

import (
	"net/http"
	"strconv"

	"habiterr/internal/services"
)

func (s *Server) statsOptions(r *http.Request) (services.StatsOptions, error) {
	opts := s.stats.Defaults()
	if v := r.URL.Query().Get("windowDays"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, badRequest("windowDays must be an integer")
		}
		opts.WindowDays = n
	}
	return opts, nil
}

func (s *Server) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := s.statsOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.stats.Summary(r.Context(), userID(r), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// snapshotStatsHandler recomputes the snapshot from the ledger. Any request
// body is ignored.
func (s *Server) snapshotStatsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := s.statsOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.stats.Snapshot(r.Context(), userID(r), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
