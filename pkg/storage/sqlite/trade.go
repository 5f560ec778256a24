package sqlite

import (
	"context"
	"fmt"
)

// InsertTrade appends one row to the trades table. The id is assigned by
// the database and is monotonically increasing in insertion order.
//
// Deliberately no conflict clause: the store does not deduplicate. If the
// upstream feed redelivers a message, it is stored twice.
func (s *SqliteClient) InsertTrade(ctx context.Context, record *TradeRecord) error {
	tx := s.DB.WithContext(ctx).Create(record)
	if tx.Error != nil {
		return fmt.Errorf("insert trade: %w", tx.Error)
	}
	return nil
}

// ScanPricePoints returns every stored trade in insertion order, projected
// to the (time_exchange, price) pair needed for plotting.
func (s *SqliteClient) ScanPricePoints(ctx context.Context) ([]PricePoint, error) {
	var points []PricePoint
	err := s.DB.WithContext(ctx).
		Model(&TradeRecord{}).
		Select("time_exchange", "price").
		Order("id").
		Find(&points).Error

	if err != nil {
		return nil, fmt.Errorf("scan trades: %w", err)
	}
	return points, nil
}

// CountTrades reports the number of stored rows.
func (s *SqliteClient) CountTrades(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&TradeRecord{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return count, nil
}
