package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// dashboardView is everything the dashboard template needs, built by
// running the aggregation pipeline over one user's transactions.
type dashboardView struct {
	Flash      *flashMessage
	User       core.User
	FilterDate string

	Totals   core.PeriodSummary
	Payments core.PaymentSummary

	Year           int
	MonthlyIncome  map[int]decimal.Decimal
	MonthlyExpense map[int]decimal.Decimal

	Running []core.BalanceEntry
	Recent  []core.BalanceEntry
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	filterStr := sanitizeInput(r.URL.Query().Get("filter_date"))
	var filter core.Date
	if filterStr != "" {
		parsed, err := core.ParseDate(filterStr)
		if err != nil {
			// A malformed filter is dropped rather than failing the page.
			setFlash(w, flashWarning, "Ignoring invalid filter date.")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		filter = parsed
	}

	view, err := s.buildDashboard(r, userID, filter, filterStr)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build failed", "error", err, "user_id", userID)
		http.Error(w, "could not load dashboard", http.StatusInternalServerError)
		return
	}
	view.Flash = popFlash(w, r)

	s.render(w, r, "dashboard.html", view)
}

func (s *Server) buildDashboard(r *http.Request, userID int64, filter core.Date, filterStr string) (dashboardView, error) {
	key := dashboardCacheKey(userID, filterStr)
	if cached, found := s.dashCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", userID, "filter", filterStr)
		return cached, nil
	}

	user, err := s.users.GetUserByID(r.Context(), userID)
	if err != nil {
		return dashboardView{}, err
	}
	txs, err := s.txs.ListTransactions(r.Context(), userID)
	if err != nil {
		return dashboardView{}, err
	}

	year := time.Now().Year()
	income, expense := core.MonthlyTotals(txs, year)
	running := core.RunningBalance(txs)

	view := dashboardView{
		User:           user,
		FilterDate:     filterStr,
		Totals:         core.PeriodTotals(txs, filter),
		Payments:       core.PaymentTotals(txs),
		Year:           year,
		MonthlyIncome:  income,
		MonthlyExpense: expense,
		Running:        running,
		Recent:         core.Recent(running, core.RecentLimit),
	}

	s.dashCache.Set(key, view)
	return view, nil
}

// invalidateDashboards drops every cached dashboard for one user.
// Called after any mutation so the next request recomputes.
func (s *Server) invalidateDashboards(userID int64) {
	s.dashCache.DeletePrefix(dashboardCachePrefix(userID))
}

func dashboardCachePrefix(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":"
}

func dashboardCacheKey(userID int64, filter string) string {
	if filter == "" {
		filter = "all"
	}
	return dashboardCachePrefix(userID) + filter
}
