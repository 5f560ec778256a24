package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"btcticker/config"
	"btcticker/internal/ticker/stream"
	"btcticker/pkg/storage/sqlite"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// Renderer turns the stored price points into a time-series line chart and
// serves it locally so it can be viewed in a browser.
type Renderer struct {
	cfg    config.ChartConfig
	logger *zap.Logger
}

func NewRenderer(cfg config.ChartConfig, logger *zap.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

// Render writes the chart for the given points to the configured HTML file.
// An empty point set is not an error: it produces a chart with no data.
func (r *Renderer) Render(points []sqlite.PricePoint) error {
	f, err := os.Create(r.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := r.render(points, f); err != nil {
		return err
	}

	r.logger.Info("chart rendered",
		zap.String("file", r.cfg.OutputFile),
		zap.Int("points", len(points)))
	return nil
}

func (r *Renderer) render(points []sqlite.PricePoint, w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "BTC/USD Price Over Time",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "BTC/USD Price Over Time"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
			AxisLabel: &opts.AxisLabel{
				Show:   opts.Bool(true),
				Rotate: 45, // rotate time labels for readability
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price (USD)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	times := make([]string, 0, len(points))
	prices := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		// Same Z -> +00:00 normalization as the ingest summary, applied
		// independently here; the stored string itself stays raw.
		label := p.TimeExchange
		if t, err := stream.ParseExchangeTime(p.TimeExchange); err == nil {
			label = t.UTC().Format("2006-01-02 15:04:05")
		}
		times = append(times, label)
		prices = append(prices, opts.LineData{Value: p.Price})
	}

	line.SetXAxis(times).
		AddSeries("price", prices).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Serve exposes the rendered chart on the configured local address and
// blocks until ctx is cancelled. This is the "viewer window": dismissing it
// is a second interrupt.
func (r *Renderer) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, r.cfg.OutputFile)
	})

	srv := &http.Server{Addr: r.cfg.ListenAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	r.logger.Info("serving chart, press Ctrl+C to exit",
		zap.String("url", "http://"+r.cfg.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("chart server: %w", err)
	}
}
