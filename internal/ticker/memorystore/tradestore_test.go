package memorystore

import (
	"sync"
	"testing"
)

func TestTradeStoreAddAndCount(t *testing.T) {
	store := NewTradeStore()
	if store.CountAll() != 0 {
		t.Fatalf("new store count = %d, want 0", store.CountAll())
	}

	store.Add(Trade{SymbolID: "BITSTAMP_SPOT_BTC_USD", Price: 67123.45})
	store.Add(Trade{SymbolID: "BITSTAMP_SPOT_BTC_USD", Price: 67124.00})

	if got := store.CountAll(); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}

	all := store.GetAll()
	if len(all) != 2 {
		t.Fatalf("len(GetAll()) = %d, want 2", len(all))
	}
	if all[0].Price != 67123.45 || all[1].Price != 67124.00 {
		t.Errorf("trades out of insertion order: %+v", all)
	}
}

func TestTradeStoreGetAllReturnsCopy(t *testing.T) {
	store := NewTradeStore()
	store.Add(Trade{Price: 1.0})

	all := store.GetAll()
	all[0].Price = 99.0

	if store.GetAll()[0].Price != 1.0 {
		t.Error("GetAll must return a copy, not the backing slice")
	}
}

func TestTradeStoreConcurrentAdds(t *testing.T) {
	store := NewTradeStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Add(Trade{Price: float64(j)})
			}
		}()
	}
	wg.Wait()

	if got := store.CountAll(); got != 1000 {
		t.Errorf("count = %d, want 1000", got)
	}
}
