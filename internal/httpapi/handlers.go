package httpapi

import (
	"fmt"
	"net/http"

	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/export"
	"mlbvalue-mcp/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
)

func reader(r *http.Request) *queryReader {
	return &queryReader{q: r.URL.Query()}
}

// Health reports whether a snapshot can be served. It loads the data file when needed.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		render.Status(r, StatusFor(err))
		render.JSON(w, r, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	res := map[string]any{
		"status":    "ok",
		"snapshot":  snap.ID,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
		"players":   snap.Table.Len(),
	}
	if snap.MetricsErr != nil {
		res["metrics_unavailable"] = snap.MetricsErr.Error()
	}
	render.JSON(w, r, res)
}

// Overview returns KPIs and category counts for the filtered players.
func (s *Server) Overview(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := qr.filter()
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	ov, err := s.svc.Overview(r.Context(), q.toFilter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, ov)
}

func (s *Server) playersFilter(w http.ResponseWriter, r *http.Request) (playersQuery, dashboard.Filter, bool) {
	qr := reader(r)
	q := playersQuery{FilterQuery: qr.filter(), SortQuery: qr.sort(), Columns: qr.list("columns")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return q, dashboard.Filter{}, false
	}
	f := q.toFilter()
	f.SortBy, f.Descending, f.Limit = q.SortBy, q.Descending, q.Limit
	return q, f, true
}

// Players lists the filtered players, DefaultLimit at a time unless limit is given.
func (s *Server) Players(w http.ResponseWriter, r *http.Request) {
	_, f, ok := s.playersFilter(w, r)
	if !ok {
		return
	}
	if f.Limit == 0 {
		f.Limit = dashboard.DefaultLimit
	}
	page, err := s.svc.Players(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// ExportCSV streams the filtered players as a CSV attachment. limit=0 exports every match.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	q, f, ok := s.playersFilter(w, r)
	if !ok {
		return
	}
	t, err := s.svc.Table(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cols, err := export.Columns(t, q.Columns)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := export.Filename(export.DefaultPrefix, s.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := export.WriteCSV(w, t, cols); err != nil {
		// Headers are gone; the client sees a truncated file.
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("CSV export failed mid-stream")
		return
	}
	log.Info().Str("file", name).Int("rows", t.Len()).Msg("Served CSV export")
}

// Compare scores up to five players named by repeated or comma separated names.
func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := compareQuery{Names: qr.list("names")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	cmp, err := s.svc.Compare(r.Context(), q.Names)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, cmp)
}

// Leaders ranks the filtered players by the metric in the path.
func (s *Server) Leaders(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := leadersQuery{FilterQuery: qr.filter(), Top: qr.integer("top"), Ascending: qr.flag("ascending")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	top := q.Top
	if top == 0 {
		top = dashboard.DefaultLeaders
	}
	l, err := s.svc.Leaders(r.Context(), chi.URLParam(r, "metric"), top, q.Ascending, q.toFilter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, l)
}

// Anomalies lists mispriced contracts among the filtered players.
func (s *Server) Anomalies(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := anomalyQuery{
		FilterQuery:  qr.filter(),
		ThresholdPct: qr.number("threshold_pct"),
		WARFloor:     qr.number("war_floor"),
		Limit:        qr.integer("limit"),
	}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	p := dashboard.AnomalyParams{
		ThresholdPct: dashboard.DefaultAnomalyThreshold,
		MinWAR:       dashboard.DefaultAnomalyMinWAR,
		Limit:        q.Limit,
	}
	if q.ThresholdPct != nil {
		p.ThresholdPct = *q.ThresholdPct
	}
	if q.WARFloor != nil {
		p.MinWAR = *q.WARFloor
	}
	a, err := s.svc.Anomalies(r.Context(), p, q.toFilter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, a)
}

// Teams returns payroll efficiency per team.
func (s *Server) Teams(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := teamsQuery{Teams: qr.list("teams"), SortBy: qr.str("sort_by"), Descending: qr.flag("descending")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.svc.Teams(r.Context(), q.Teams, q.SortBy, q.Descending)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// TeamPSI returns the payroll strategy index of every team.
func (s *Server) TeamPSI(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.TeamPSI(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// Positions returns the cost of one WAR per position.
func (s *Server) Positions(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := teamsQuery{SortBy: qr.str("sort_by"), Descending: qr.flag("descending")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.svc.Positions(r.Context(), q.SortBy, q.Descending)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// Inequality returns the salary Gini and Lorenz curve of the league or ?team=.
func (s *Server) Inequality(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := FilterQuery{Team: qr.str("team")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	ineq, err := s.svc.Inequality(r.Context(), q.Team)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, ineq)
}

// Regression fits ?y= on ?x= (Salary_millions on WAR by default).
func (s *Server) Regression(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := regressionQuery{FilterQuery: qr.filter(), X: qr.str("x"), Y: qr.str("y")}
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	if q.X == "" {
		q.X = table.ColWAR
	}
	if q.Y == "" {
		q.Y = table.ColSalary
	}
	reg, err := s.svc.Regression(r.Context(), q.X, q.Y, q.toFilter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, reg)
}

// TPM returns the talent/price matrix of the filtered players.
func (s *Server) TPM(w http.ResponseWriter, r *http.Request) {
	qr := reader(r)
	q := qr.filter()
	if err := s.check(qr, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.svc.TPMMatrix(r.Context(), q.toFilter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, m)
}

// Reload drops the cached snapshot and reads the data file again.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Reload(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"snapshot":  snap.ID,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
		"players":   snap.Table.Len(),
		"report":    snap.Report,
	})
}
