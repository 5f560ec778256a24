package stream

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformedFrame marks a frame that is not valid JSON. Logged and
	// skipped; never fatal to the listen loop.
	ErrMalformedFrame = errors.New("frame is not valid JSON")

	// ErrMissingField marks a parsed trade message lacking one of the five
	// required fields. Logged and skipped.
	ErrMissingField = errors.New("trade message missing required field")
)

// TradeMessage represents a CoinAPI WebSocket message carrying one trade
// event. Fields are pointers so that absent keys can be told apart from
// zero values during validation.
type TradeMessage struct {
	Type         string   `json:"type"`          // message type, "trade" for trade events
	TimeExchange *string  `json:"time_exchange"` // ISO-8601 with trailing Z, stored verbatim
	SymbolID     *string  `json:"symbol_id"`
	Price        *float64 `json:"price"`
	Size         *float64 `json:"size"`
	TakerSide    *string  `json:"taker_side"` // aggressor direction as provided by the feed
}

// Validate checks that all five required trade fields are present.
func (m *TradeMessage) Validate() error {
	switch {
	case m.TimeExchange == nil:
		return fmt.Errorf("%w: time_exchange", ErrMissingField)
	case m.SymbolID == nil:
		return fmt.Errorf("%w: symbol_id", ErrMissingField)
	case m.Price == nil:
		return fmt.Errorf("%w: price", ErrMissingField)
	case m.Size == nil:
		return fmt.Errorf("%w: size", ErrMissingField)
	case m.TakerSide == nil:
		return fmt.Errorf("%w: taker_side", ErrMissingField)
	}
	return nil
}

// ParseExchangeTime normalizes a feed timestamp for display by replacing a
// trailing Z designator with an explicit +00:00 offset and parsing the
// result as an absolute time. The stored value is always the original
// string; this normalization exists only at display sites.
func ParseExchangeTime(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse exchange time %q: %w", s, err)
	}
	return t, nil
}
