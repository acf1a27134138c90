package charts

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/coffeeshop/internal/generator"
	"github.com/mmynk/coffeeshop/internal/report"
	"github.com/mmynk/coffeeshop/internal/storage/memory"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func generated(t *testing.T, transactions int) *report.Dataset {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	cfg := generator.DefaultConfig()
	cfg.Transactions = transactions
	cfg.Seed = 9
	g, err := generator.New(store, cfg)
	require.NoError(t, err)
	_, err = g.Run(ctx)
	require.NoError(t, err)

	d, err := report.Load(ctx, store)
	require.NoError(t, err)
	return d
}

func assertPNGs(t *testing.T, dir string, paths []string) {
	t.Helper()
	require.Len(t, paths, len(Files()))
	for i, name := range Files() {
		assert.Equal(t, filepath.Join(dir, name), paths[i])

		data, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", name)
	}
}

func TestExport(t *testing.T) {
	t.Run("generated dataset", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "analysis_output")
		paths, err := Export(context.Background(), generated(t, 300), dir)
		require.NoError(t, err)
		assertPNGs(t, dir, paths)
	})

	t.Run("empty dataset still renders", func(t *testing.T) {
		dir := t.TempDir()
		paths, err := Export(context.Background(), report.NewDataset(nil, nil, nil), dir)
		require.NoError(t, err)
		assertPNGs(t, dir, paths)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Export(ctx, generated(t, 10), t.TempDir())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFiles(t *testing.T) {
	assert.Equal(t, []string{
		"daily_sales_trend.png",
		"hourly_traffic.png",
		"top_products.png",
		"category_sales.png",
		"aov_by_day.png",
	}, Files())
}

func TestRender(t *testing.T) {
	d := generated(t, 50)

	t.Run("known chart", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, d, HourlyTraffic))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})

	t.Run("unknown chart", func(t *testing.T) {
		var buf bytes.Buffer
		err := Render(&buf, d, "revenue.svg")
		assert.ErrorIs(t, err, ErrUnknownChart)
		assert.Zero(t, buf.Len())
	})
}
