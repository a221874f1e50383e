package model

// PoolReport is the full result of one analytics run, ready for rendering.
type PoolReport struct {
	PoolAddress string
	Symbol0     string
	Symbol1     string
	Tick        int32
	Liquidity   string

	Price0Per1 float64
	Price1Per0 float64

	Balance0 float64
	Balance1 float64

	FromBlock BlockRef
	ToBlock   BlockRef

	SwapCount     int
	TVLUSD        float64
	VolumeUSD     float64
	DailyFeesUSD  float64
	YearlyFeesUSD float64
	APRPercent    float64

	// PairSupported is false when neither token matches the reference
	// asset set; TVL and volume are reported as zero in that case.
	PairSupported bool
}
