package stream

import (
	"context"
	"encoding/json"

	"btcticker/internal/ticker/memorystore"
	"btcticker/pkg/storage/sqlite"

	"go.uber.org/zap"
)

// TradeInserter is the write half of the storage contract the handler needs.
type TradeInserter interface {
	InsertTrade(ctx context.Context, record *sqlite.TradeRecord) error
}

// MakeMessageHandler returns a function that handles incoming WebSocket
// frames by parsing trade data and appending it to storage.
//
// Error policy: parse failures, schema failures and storage failures are
// logged and the message skipped — no per-message error ever escapes into
// the listen loop. Only stream termination or cancellation ends ingestion.
func MakeMessageHandler(ctx context.Context, logger *zap.Logger,
	store *memorystore.MemoryTradeStore, inserter TradeInserter) func(msg []byte) {
	return func(msg []byte) {
		// Step 1: Extract the type field for early filtering
		var meta struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &meta); err != nil {
			logger.Warn("skipping malformed frame",
				zap.Error(ErrMalformedFrame), zap.NamedError("cause", err))
			return
		}
		if meta.Type != "trade" {
			return // Ignore non-trade messages (e.g., heartbeats, error envelopes)
		}

		// Step 2: Fully parse the trade payload
		var parsed TradeMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			// The envelope was valid JSON, so this is a shape problem
			// (e.g. price arriving as a string), not a framing problem.
			logger.Warn("skipping trade with invalid field shape", zap.Error(err))
			return
		}
		if err := parsed.Validate(); err != nil {
			logger.Warn("skipping incomplete trade", zap.Error(err))
			return
		}

		trade := memorystore.Trade{
			TimeExchange: *parsed.TimeExchange,
			SymbolID:     *parsed.SymbolID,
			Price:        *parsed.Price,
			Size:         *parsed.Size,
			TakerSide:    *parsed.TakerSide,
		}
		store.Add(trade)

		// Step 3: Append to storage. The record carries the original
		// timestamp string untouched.
		record := &sqlite.TradeRecord{
			TimeExchange: trade.TimeExchange,
			SymbolID:     trade.SymbolID,
			Price:        trade.Price,
			Size:         trade.Size,
			TakerSide:    trade.TakerSide,
		}
		if err := inserter.InsertTrade(ctx, record); err != nil {
			logger.Warn("failed to insert trade record", zap.Error(err))
			return
		}

		// Step 4: One-line human-readable summary. The timestamp is
		// normalized (Z -> +00:00) here for display only.
		displayTime := trade.TimeExchange
		if t, err := ParseExchangeTime(trade.TimeExchange); err == nil {
			displayTime = t.UTC().String()
		}
		logger.Info("trade",
			zap.String("symbol", trade.SymbolID),
			zap.String("taker_side", trade.TakerSide),
			zap.Float64("price", trade.Price),
			zap.Float64("size", trade.Size),
			zap.String("time", displayTime),
		)
	}
}
