package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/coffeeshop/internal/generator"
	"github.com/mmynk/coffeeshop/internal/metrics"
	"github.com/mmynk/coffeeshop/internal/middleware"
	"github.com/mmynk/coffeeshop/internal/report"
	"github.com/mmynk/coffeeshop/internal/storage/memory"
)

func testDataset(t *testing.T) *report.Dataset {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	cfg := generator.DefaultConfig()
	cfg.Transactions = 400
	cfg.Seed = 2024
	g, err := generator.New(store, cfg)
	require.NoError(t, err)
	_, err = g.Run(ctx)
	require.NoError(t, err)

	d, err := report.Load(ctx, store)
	require.NoError(t, err)
	return d
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestIndex(t *testing.T) {
	d := testDataset(t)
	rec := get(t, New(d), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	first, last, ok := d.Bounds()
	require.True(t, ok)
	assert.Contains(t, body, first.Format("2006-01-02"))
	assert.Contains(t, body, last.Format("2006-01-02"))
	assert.Contains(t, body, `id="kpis"`)
	assert.Contains(t, body, `id="recent"`)
	assert.Contains(t, body, "/charts/daily_sales_trend.png")
	assert.Contains(t, body, money(d.Summary().TotalRevenue))
}

func TestAPI_Summary(t *testing.T) {
	d := testDataset(t)
	srv := New(d)

	t.Run("whole dataset", func(t *testing.T) {
		rec := get(t, srv, "/api/summary")
		require.Equal(t, http.StatusOK, rec.Code)

		var s report.Summary
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &s))
		assert.Equal(t, 400, s.Transactions)

		total := decimal.Zero
		for _, tx := range d.Transactions {
			total = total.Add(tx.TotalAmount)
		}
		assert.True(t, s.TotalRevenue.Equal(total))
	})

	t.Run("range without sales", func(t *testing.T) {
		rec := get(t, srv, "/api/summary?start=1999-01-01&end=1999-01-31")
		require.Equal(t, http.StatusOK, rec.Code)

		var s report.Summary
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &s))
		assert.Zero(t, s.Transactions)
		assert.True(t, s.TotalRevenue.IsZero())
		assert.True(t, s.AverageOrderValue.IsZero())
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := get(t, srv, "/api/summary?start=yesterday")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestAPI_Endpoints(t *testing.T) {
	srv := New(testDataset(t))

	tests := []struct {
		path string
		rows int
	}{
		{"/api/weekday-aov", 7},
		{"/api/top-products?n=3", 3},
		{"/api/recent?n=5", 5},
		{"/api/recent", report.DefaultRecent},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)

			var rows []json.RawMessage
			require.NoError(t, json.Unmarshal(decode(t, rec).Data, &rows))
			assert.Len(t, rows, tt.rows)
		})
	}

	for _, path := range []string{"/api/daily-revenue", "/api/hourly-traffic", "/api/category-revenue"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, decode(t, rec).Success)
		})
	}

	t.Run("bad limit", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/top-products?n=-2").Code)
	})

	t.Run("writes are not routed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/summary", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sse/refresh", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCharts(t *testing.T) {
	srv := New(testDataset(t))

	rec := get(t, srv, "/charts/top_products.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/secrets.png").Code)
}

func TestRefresh(t *testing.T) {
	d := testDataset(t)
	srv := New(d)

	refresh := func(sig signals) *httptest.ResponseRecorder {
		raw, err := json.Marshal(sig)
		require.NoError(t, err)
		return get(t, srv, "/sse/refresh?datastar="+url.QueryEscape(string(raw)))
	}

	t.Run("patches fragments and signals", func(t *testing.T) {
		first, _, _ := d.Bounds()
		start := first.Format("2006-01-02")

		rec := refresh(signals{StartDate: start, EndDate: start})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, `id="kpis"`)
		assert.Contains(t, body, `id="charts"`)
		assert.Contains(t, body, `id="recent"`)
		assert.Contains(t, body, "start="+start)

		filtered, err := report.ParseDateRange(start, start)
		require.NoError(t, err)
		assert.Contains(t, body, money(d.Filter(filtered).Summary().TotalRevenue))
	})

	t.Run("invalid range reports an error", func(t *testing.T) {
		rec := refresh(signals{StartDate: "2025-02-01", EndDate: "2025-01-01"})
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, `id="error"`)
		assert.Contains(t, body, "before start date")
		assert.NotContains(t, body, `id="kpis"`)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	d := testDataset(t)
	reg := prometheus.NewRegistry()
	srv := New(d, WithMetrics(metrics.NewHTTP(reg), reg))

	rec := get(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, d.Run.ID, health["run_id"])

	get(t, srv, "/api/summary")

	rec = get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "coffeeshop_dataset_transactions 400")
	assert.Contains(t, body, `coffeeshop_http_requests_total{code="200",method="GET",route="/api/summary"} 1`)
}

func TestRateLimit(t *testing.T) {
	srv := New(testDataset(t), WithRateLimiter(middleware.NewRateLimiter(1, 1)))

	assert.Equal(t, http.StatusOK, get(t, srv, "/api/summary").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv, "/api/summary").Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/health").Code, "health is not limited")
}

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"0":        "$0.00",
		"4.5":      "$4.50",
		"1234.5":   "$1,234.50",
		"987654.3": "$987,654.30",
		"-12.345":  "-$12.35",
	}
	for in, want := range tests {
		assert.Equal(t, want, money(decimal.RequireFromString(in)), in)
	}
}
