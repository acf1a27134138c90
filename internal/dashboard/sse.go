package dashboard

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/report"
)

// signals are the datastar signals bound to the date inputs.
type signals struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type pageData struct {
	Run   *models.GenerationRun
	Start string
	End   string
	View  view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var start, end string
	if first, last, ok := s.data.Bounds(); ok {
		start = first.Format(models.DateLayout)
		end = last.Format(models.DateLayout)
	}

	data := pageData{
		Run:   s.data.Run,
		Start: start,
		End:   end,
		View:  newView(s.data, start, end),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write dashboard", "error", err)
	}
}

// handleRefresh re-renders the KPI cards, chart images and recent
// transactions for the date range held in the signals.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var sig signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		slog.Warn("Invalid datastar signals", "error", err)
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	dr, err := report.ParseDateRange(sig.StartDate, sig.EndDate)
	if err != nil {
		patch(sse, "error", err.Error())
		return
	}

	d := s.data.Filter(dr)
	v := newView(d, sig.StartDate, sig.EndDate)

	patch(sse, "error", "")
	patch(sse, "kpis", v)
	patch(sse, "charts", v)
	patch(sse, "recent", v)

	if err := sse.MarshalAndPatchSignals(map[string]any{"summary": v.Summary}); err != nil {
		slog.Warn("Failed to patch signals", "error", err)
	}
}

// patch renders the named fragment and sends it; fragments carry their own
// element id, so datastar morphs them in place.
func patch(sse *datastar.ServerSentEventGenerator, fragment string, data any) {
	html, err := render(fragment, data)
	if err != nil {
		slog.Error("Failed to render fragment", "fragment", fragment, "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		slog.Warn("Failed to patch elements", "fragment", fragment, "error", err)
	}
}
