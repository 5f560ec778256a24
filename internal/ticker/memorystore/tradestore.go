package memorystore

import "sync"

// Trade is the in-memory form of one validated trade event.
type Trade struct {
	TimeExchange string
	SymbolID     string
	Price        float64
	Size         float64
	TakerSide    string
}

// MemoryTradeStore keeps the trades seen during the current run. It backs
// the periodic count log and the end-of-run summary; durable persistence
// lives in the sqlite store.
type MemoryTradeStore struct {
	mu     sync.Mutex
	trades []Trade
}

func NewTradeStore() *MemoryTradeStore {
	return &MemoryTradeStore{
		trades: make([]Trade, 0),
	}
}

func (s *MemoryTradeStore) Add(t Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, t)
}

func (s *MemoryTradeStore) GetAll() []Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Trade, len(s.trades))
	copy(cp, s.trades)
	return cp
}

// CountAll returns the number of trades ingested so far this run.
func (s *MemoryTradeStore) CountAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}
