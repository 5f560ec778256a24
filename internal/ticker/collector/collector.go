package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btcticker/config"
	"btcticker/internal/chart"
	"btcticker/internal/ticker/memorystore"
	"btcticker/internal/ticker/stream"
	"btcticker/pkg/coinapi"
	"btcticker/pkg/storage/sqlite"

	"go.uber.org/zap"
)

// Run drives the whole pipeline: ensure the trades schema, stream and
// persist trade events until the connection ends or ctx is cancelled, then
// render the chart from a full scan of storage.
//
// The sqlite client is owned here for the entire run and shared sequentially
// (never concurrently) between the ingest handler and the visualizer. The
// websocket connection is owned by the streaming phase only.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	phases := newPhaseTracker()

	// Storage first: schema ensure is idempotent and safe on every startup.
	store, err := sqlite.InitializeAndMigrateTradeRecord(cfg.Sqlite)
	if err != nil {
		return fmt.Errorf("failed to open trade store: %w", err)
	}
	defer store.Close()

	apiKey := cfg.CoinAPI.APIKey()
	if apiKey == "" {
		// Opaque credential, no validation in scope: the feed will simply
		// reject the handshake and close the stream.
		logger.Warn("no API key resolved, the feed will reject the subscription")
	}

	tradeStore := memorystore.NewTradeStore()

	if err := phases.transition(PhaseStreaming); err != nil {
		return err
	}
	streamCtx, cancelStream := context.WithCancel(ctx)
	ingestDone := make(chan error, 1)
	go func() {
		ingestDone <- runIngest(streamCtx, cfg, apiKey, logger, tradeStore, store)
	}()

	// Periodically surface the ingested trade count for visibility.
	go func() {
		tick := time.NewTicker(5 * time.Second)
		defer tick.Stop()
		for {
			select {
			case <-streamCtx.Done():
				return
			case <-tick.C:
				logger.Info("current saved trades", zap.Int("count", tradeStore.CountAll()))
			}
		}
	}()

	// Await the ingest goroutine: it returns when the stream ends, errors,
	// or ctx is cancelled (Ctrl+C).
	ingestErr := <-ingestDone

	if err := phases.transition(PhaseCancelling); err != nil {
		return err
	}
	cancelStream()
	if ingestErr != nil {
		// Fatal to the ingest phase only; whatever was stored still gets
		// visualized.
		logger.Error("ingest phase failed", zap.Error(ingestErr))
	}
	logger.Info("ingest stopped", zap.Int("trades_this_run", tradeStore.CountAll()))

	if err := phases.transition(PhaseVisualizing); err != nil {
		return err
	}
	if err := visualize(cfg, logger, store); err != nil {
		return err
	}

	if err := phases.transition(PhaseDone); err != nil {
		return err
	}
	logger.Info("done")
	return nil
}

// runIngest owns the websocket connection for its whole lifetime: connect,
// subscribe, then hand every frame to the trade handler until the stream
// ends or ctx is cancelled.
func runIngest(ctx context.Context, cfg *config.Config, apiKey string,
	logger *zap.Logger, tradeStore *memorystore.MemoryTradeStore, store *sqlite.SqliteClient) error {

	wsClient := coinapi.NewWSClient(cfg.CoinAPI.WS.URL, cfg.CoinAPI.WS.Timeout, logger)
	if err := wsClient.Connect(); err != nil {
		return err
	}
	defer wsClient.Close()

	if err := wsClient.Subscribe(apiKey, cfg.CoinAPI.SymbolID); err != nil {
		return err
	}

	wsClient.SetMessageHandler(stream.MakeMessageHandler(ctx, logger, tradeStore, store))

	err := wsClient.Listen(ctx)
	if errors.Is(err, coinapi.ErrConnectionClosed) {
		// Stream end is a terminal event for the run, not a failure.
		return nil
	}
	return err
}

// visualize scans storage once and renders the price chart, then serves it
// until a fresh interrupt dismisses the viewer.
func visualize(cfg *config.Config, logger *zap.Logger, store *sqlite.SqliteClient) error {
	points, err := store.ScanPricePoints(context.Background())
	if err != nil {
		return fmt.Errorf("failed to scan trades for plotting: %w", err)
	}
	logger.Info("visualizing stored trades", zap.Int("points", len(points)))

	renderer := chart.NewRenderer(cfg.Chart, logger)
	if err := renderer.Render(points); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	// The ingest context is already cancelled by now, so the viewer gets
	// its own signal context: the next Ctrl+C closes it.
	viewCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return renderer.Serve(viewCtx)
}
