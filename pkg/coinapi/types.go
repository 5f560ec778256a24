package coinapi

// HelloMessage is the single subscription handshake sent after connecting.
// CoinAPI treats it as fire-and-forget: no acknowledgment is awaited, and an
// invalid apikey simply results in the feed closing the connection.
type HelloMessage struct {
	Type                    string   `json:"type"`    // always "hello"
	APIKey                  string   `json:"apikey"`  // opaque credential token
	Heartbeat               bool     `json:"heartbeat"`
	SubscribeDataType       []string `json:"subscribe_data_type"`        // e.g. ["trade"]
	SubscribeFilterSymbolID []string `json:"subscribe_filter_symbol_id"` // exactly one instrument in this design
}

// NewHelloMessage builds the handshake restricted to trade events for a
// single symbol, with heartbeats disabled.
func NewHelloMessage(apiKey, symbolID string) HelloMessage {
	return HelloMessage{
		Type:                    "hello",
		APIKey:                  apiKey,
		Heartbeat:               false,
		SubscribeDataType:       []string{"trade"},
		SubscribeFilterSymbolID: []string{symbolID},
	}
}
