package server

import (
	"net/http"

	"habiterr/cmd/web"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	fileServer := http.FileServer(http.FS(web.Files))
	mux.Handle("GET /assets/", fileServer)
	mux.HandleFunc("GET /{$}", s.dashboardHandler)
	mux.HandleFunc("GET /login", s.loginPageHandler)

	s.registerAPI(mux, "")
	s.registerAPI(mux, "/api")

	return recoverPanics(logRequests(mux))
}

// registerAPI mounts the JSON routes under prefix.
func (s *Server) registerAPI(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("POST "+prefix+"/auth/signup", s.signupHandler)
	mux.HandleFunc("POST "+prefix+"/auth/login", s.loginHandler)
	mux.HandleFunc("POST "+prefix+"/auth/logout", s.logoutHandler)
	mux.Handle("GET "+prefix+"/auth/session", s.requireUser(s.sessionHandler))

	mux.Handle("GET "+prefix+"/habits", s.requireUser(s.listHabitsHandler))
	mux.Handle("POST "+prefix+"/habits", s.requireUser(s.createHabitHandler))
	mux.Handle("PUT "+prefix+"/habits", s.requireUser(s.putHabitHandler))
	mux.Handle("DELETE "+prefix+"/habits", s.requireUser(s.deleteHabitHandler))
	mux.Handle("GET "+prefix+"/habits/today", s.requireUser(s.todayHabitsHandler))
	mux.Handle("PATCH "+prefix+"/habits/{id}", s.requireUser(s.patchHabitHandler))
	mux.Handle("DELETE "+prefix+"/habits/{id}", s.requireUser(s.deleteHabitHandler))
	mux.Handle("POST "+prefix+"/habits/{id}/toggle", s.requireUser(s.toggleHabitHandler))

	mux.Handle("GET "+prefix+"/activity", s.requireUser(s.getActivityHandler))
	mux.Handle("POST "+prefix+"/activity", s.requireUser(s.upsertActivityHandler))
	mux.Handle("PATCH "+prefix+"/activity/{id}", s.requireUser(s.patchActivityHandler))
	mux.Handle("DELETE "+prefix+"/activity", s.requireUser(s.deleteActivityHandler))
	mux.Handle("DELETE "+prefix+"/activity/{id}", s.requireUser(s.deleteActivityHandler))

	mux.Handle("GET "+prefix+"/stats", s.requireUser(s.getStatsHandler))
	mux.Handle("POST "+prefix+"/stats", s.requireUser(s.snapshotStatsHandler))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health()
	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// pathOrQueryID reads the id from the path, falling back to ?id=.
func pathOrQueryID(r *http.Request) string {
	if id := r.PathValue("id"); id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}
