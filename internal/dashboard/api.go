package dashboard

import (
	"bytes"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmynk/coffeeshop/internal/charts"
	apperrors "github.com/mmynk/coffeeshop/internal/errors"
	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/report"
)

// filtered returns the dataset restricted to the start/end query parameters.
func (s *Server) filtered(r *http.Request) (*report.Dataset, error) {
	q := r.URL.Query()
	dr, err := report.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return nil, apperrors.ValidationWrap(err, err.Error())
	}
	return s.data.Filter(dr), nil
}

// limit reads the n query parameter, falling back to def.
func limit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.Validation("n must be a non-negative integer")
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":       "ok",
		"transactions": len(s.data.Transactions),
	}
	if s.data.Run != nil {
		health["generated_at"] = s.data.Run.GeneratedAt.Format(time.RFC3339)
		health["run_id"] = s.data.Run.ID
	}
	apperrors.WriteSuccess(w, health)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, d.Summary())
}

type dailyPoint struct {
	Date         string `json:"date"`
	Revenue      string `json:"revenue"`
	Transactions int    `json:"transactions"`
}

func (s *Server) handleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	days := d.DailyRevenue()
	points := make([]dailyPoint, len(days))
	for i, day := range days {
		points[i] = dailyPoint{
			Date:         day.Date.Format(models.DateLayout),
			Revenue:      day.Revenue.StringFixed(2),
			Transactions: day.Transactions,
		}
	}
	apperrors.WriteSuccess(w, points)
}

func (s *Server) handleHourlyTraffic(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, d.HourlyTraffic())
}

func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	n, err := limit(r, report.DefaultTopProducts)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, d.TopProducts(n))
}

func (s *Server) handleCategoryRevenue(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, d.CategoryRevenue())
}

func (s *Server) handleWeekdayAverage(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, d.WeekdayAverage())
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	n, err := limit(r, report.DefaultRecent)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteSuccess(w, recentRows(d, n))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	d, err := s.filtered(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}

	file := mux.Vars(r)["file"]
	if !slices.Contains(charts.Files(), file) {
		apperrors.WriteError(w, apperrors.NotFound("unknown chart "+file))
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, d, file); err != nil {
		apperrors.WriteError(w, apperrors.Wrap(err, apperrors.CodeInternal, "failed to render chart"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write chart", "file", file, "error", err)
	}
}
