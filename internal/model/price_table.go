package model

// PriceTable maps token symbols to their current USD reference price.
// Refreshed once per run, never cached across runs.
type PriceTable map[string]float64

// USD returns the USD price for a symbol and whether it is known.
func (t PriceTable) USD(symbol string) (float64, bool) {
	price, ok := t[symbol]
	return price, ok
}
