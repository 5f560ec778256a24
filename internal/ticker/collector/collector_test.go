package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"btcticker/config"
	"btcticker/internal/ticker/memorystore"
	"btcticker/pkg/storage/sqlite"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestRunIngestStoresTradesUntilPeerCloses drives the ingest phase against
// a fake feed that sends a mix of frames and then closes: the valid trades
// end up in sqlite, everything else is skipped, and the phase ends cleanly
// so the visualize phase can still run on what was stored.
func TestRunIngestStoresTradesUntilPeerCloses(t *testing.T) {
	frames := []string{
		`{"type":"heartbeat"}`,
		`{"type":"trade","time_exchange":"2024-03-05T09:30:00.0000000Z","symbol_id":"BITSTAMP_SPOT_BTC_USD","price":67123.45,"size":0.01234,"taker_side":"buy"}`,
		`{broken frame`,
		`{"type":"trade","time_exchange":"2024-03-05T09:30:01.0000000Z","symbol_id":"BITSTAMP_SPOT_BTC_USD","price":67124.00,"size":0.5,"taker_side":"sell"}`,
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Consume the hello handshake first.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}))
	defer srv.Close()

	cfg := &config.Config{
		CoinAPI: config.CoinAPIConfig{
			WS: config.WSConfig{
				URL:     "ws" + strings.TrimPrefix(srv.URL, "http"),
				Timeout: 5 * time.Second,
			},
			SymbolID: "BITSTAMP_SPOT_BTC_USD",
		},
	}

	store, err := sqlite.InitializeAndMigrateTradeRecord(config.SqliteConfig{
		Path: filepath.Join(t.TempDir(), "trades.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	tradeStore := memorystore.NewTradeStore()

	err = runIngest(context.Background(), cfg, "test-key", zap.NewNop(), tradeStore, store)
	// Peer close ends the phase without error.
	require.NoError(t, err)

	assert.Equal(t, 2, tradeStore.CountAll())

	points, err := store.ScanPricePoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-03-05T09:30:00.0000000Z", points[0].TimeExchange)
	assert.Equal(t, 67123.45, points[0].Price)
	assert.Equal(t, 67124.00, points[1].Price)
}

// TestRunIngestCancellation cancels mid-stream and expects a clean return.
func TestRunIngestCancellation(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Read the handshake, then hold the stream open.
		_, _, _ = conn.ReadMessage()
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	cfg := &config.Config{
		CoinAPI: config.CoinAPIConfig{
			WS: config.WSConfig{
				URL:     "ws" + strings.TrimPrefix(srv.URL, "http"),
				Timeout: 5 * time.Second,
			},
			SymbolID: "BITSTAMP_SPOT_BTC_USD",
		},
	}

	store, err := sqlite.InitializeAndMigrateTradeRecord(config.SqliteConfig{
		Path: filepath.Join(t.TempDir(), "trades.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runIngest(ctx, cfg, "test-key", zap.NewNop(), memorystore.NewTradeStore(), store)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ingest did not stop after cancellation")
	}
}
