package httpx

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/target/ims-ui/internal/adapters/inventoryapi"
	"github.com/target/ims-ui/internal/domain/model"
)

// seriesBar is one day of the dashboard chart. Percent is the bar height
// relative to the busiest day of the month.
type seriesBar struct {
	model.DailyPoint
	Percent int
}

func seriesBars(points []model.DailyPoint) []seriesBar {
	peak := 0.0
	for _, p := range points {
		peak = math.Max(peak, p.Amount)
	}
	bars := make([]seriesBar, len(points))
	for i, p := range points {
		bars[i] = seriesBar{DailyPoint: p}
		if peak > 0 {
			bars[i].Percent = int(math.Round(p.Amount / peak * 100))
		}
	}
	return bars
}

// dashboardPeriod reads ?year= and ?month=, defaulting to the current month.
func dashboardPeriod(r *http.Request, now time.Time) (int, time.Month) {
	year, month := now.Year(), now.Month()
	q := r.URL.Query()
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y >= now.Year()-dashboardYears+1 && y <= now.Year() {
		year = y
	}
	if m, err := strconv.Atoi(q.Get("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

// DashboardPage shows headline counters, recent activity and a daily series
// for the selected month. Sections that failed to load are reported inline.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := dashboardPeriod(r, now)

	dash, err := h.Dashboard.Build(r.Context(), year, month)
	if inventoryapi.IsStatus(err, http.StatusUnauthorized) {
		h.expireSession(w, r)
		return
	}

	years := make([]int, 0, dashboardYears)
	for y := now.Year(); y > now.Year()-dashboardYears; y-- {
		years = append(years, y)
	}
	months := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m)
	}

	b := NewTemplateData(r, PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard}).
		With("Dashboard", dash).
		With("Bars", seriesBars(dash.Series)).
		With("Years", years).
		With("Months", months)
	if err != nil {
		h.logger().WarnContext(r.Context(), "dashboard partially unavailable", "error", err)
		b.WithError("Some dashboard data could not be loaded.")
	}
	h.render(w, r, http.StatusOK, b.Build())
}
