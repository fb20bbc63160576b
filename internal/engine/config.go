package engine

// Thresholds are the detector parameters. Volumes are in lots, amounts in
// currency units.
type Thresholds struct {
	// IcebergMinVolume is the active volume delta an iceberg check needs.
	IcebergMinVolume int64 `env:"ICEBERG_MIN_VOLUME" envDefault:"500"`
	// RefillRatio is the share of the active volume the queue must have
	// been refilled by.
	RefillRatio float64 `env:"REFILL_RATIO" envDefault:"0.8"`
	// SpoofMaxSell is the largest active-sell delta still considered "no selling".
	SpoofMaxSell int64 `env:"SPOOF_MAX_SELL" envDefault:"100"`
	// SpoofMinBidDrop is how far bid1 has to fall to count as withdrawn.
	SpoofMinBidDrop int64 `env:"SPOOF_MIN_BID_DROP" envDefault:"1000"`
	// DivergenceNetFlow is the net active flow a divergence needs.
	DivergenceNetFlow int64 `env:"DIVERGENCE_NET_FLOW" envDefault:"1000"`
	// LargeAmount is the turnover above which an iceberg is reclassified.
	LargeAmount float64 `env:"LARGE_AMOUNT" envDefault:"1000000"`
	// LotSize converts lots to shares for the turnover estimate.
	LotSize int64 `env:"LOT_SIZE" envDefault:"100"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		IcebergMinVolume:  500,
		RefillRatio:       0.8,
		SpoofMaxSell:      100,
		SpoofMinBidDrop:   1000,
		DivergenceNetFlow: 1000,
		LargeAmount:       1_000_000,
		LotSize:           100,
	}
}
