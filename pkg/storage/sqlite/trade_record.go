package sqlite

// TradeRecord represents one observed trade event stored in the database.
//
// TimeExchange holds the timestamp string exactly as received from the feed
// (ISO-8601 with a trailing Z). It is never reformatted before storage;
// normalization for display happens at the read sites only.
type TradeRecord struct {
	ID uint `gorm:"primaryKey"`

	TimeExchange string  `gorm:"column:time_exchange;type:text"`
	SymbolID     string  `gorm:"column:symbol_id;type:text"`
	Price        float64 `gorm:"column:price;type:real"`
	Size         float64 `gorm:"column:size;type:real"`
	TakerSide    string  `gorm:"column:taker_side;type:text"`
}

// TableName overrides the default table name for GORM.
func (TradeRecord) TableName() string {
	return "trades"
}

// PricePoint is the projection of a TradeRecord used for plotting: the raw
// exchange timestamp and the trade price, nothing else.
type PricePoint struct {
	TimeExchange string
	Price        float64
}
