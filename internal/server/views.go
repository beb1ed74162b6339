package server

import (
	"net/http"

	"github.com/a-h/templ"

	"habiterr/cmd/web"
	"habiterr/internal/services"
)

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	templ.Handler(web.Login(r.URL.Query().Get("error"))).ServeHTTP(w, r)
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()
	cal := s.ledger.Calendar()
	today := cal.Today()

	summary, err := s.stats.Summary(ctx, u.ID, s.stats.Defaults())
	if err != nil {
		writeError(w, r, err)
		return
	}
	weeklyFrom := cal.DaysAgo(services.WeeklyWindowDays - 1)
	weekly, err := s.ledger.ListRange(ctx, u.ID, weeklyFrom, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	heatFrom := cal.DaysAgo(services.HeatmapWindowDays - 1)
	heat, err := s.ledger.ListRange(ctx, u.ID, heatFrom, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	habits, err := s.habits.Today(ctx, u.ID, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	templ.Handler(web.Dashboard(web.DashboardData{
		User:    u,
		Summary: summary,
		Weekly:  web.Bars(weekly, weeklyFrom, today),
		Heatmap: web.Heatmap(heat, heatFrom, today),
		Today:   habits,
	})).ServeHTTP(w, r)
}
