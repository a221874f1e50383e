package analytics

import (
	"math/big"

	"poolLens/internal/model"
)

const (
	// daysPerYear is the simple non-compounding annualization factor.
	daysPerYear = 365

	priceFloatPrec = 256
)

// supportedPairs is the reference-asset pair set with USD pricing.
// Pools outside this set get TVL and volume of zero, a documented
// degraded result rather than an error.
var supportedPairs = map[[2]string]struct{}{
	{"WETH", "WBTC"}: {},
	{"WBTC", "WETH"}: {},
}

// PairSupported reports whether the ordered token pair has USD pricing.
func PairSupported(symbol0, symbol1 string) bool {
	_, ok := supportedPairs[[2]string{symbol0, symbol1}]
	return ok
}

// Metrics is the derived output of one analytics pass.
type Metrics struct {
	Price0Per1    float64
	Price1Per0    float64
	Balance0      float64
	Balance1      float64
	TVLUSD        float64
	SwapCount     int
	VolumeUSD     float64
	DailyFeesUSD  float64
	YearlyFeesUSD float64
	APRPercent    float64
	PairSupported bool
}

// Compute derives prices, TVL, trailing volume, fee revenue and APR
// from a pool snapshot, token records, reference prices, and the swaps
// observed in the window. Pure function, no side effects.
func Compute(state model.PoolState, token0, token1 model.TokenInfo, prices model.PriceTable, swaps []model.SwapEvent) Metrics {
	m := Metrics{SwapCount: len(swaps)}

	m.Price0Per1, m.Price1Per0 = PriceFromSqrtX96(state.SqrtPriceX96, token0.Decimals, token1.Decimals)

	m.Balance0 = normalizeAmount(token0.PoolBalance, token0.Decimals)
	m.Balance1 = normalizeAmount(token1.PoolBalance, token1.Decimals)

	m.PairSupported = PairSupported(token0.Symbol, token1.Symbol)
	usd0, ok0 := prices.USD(token0.Symbol)
	usd1, ok1 := prices.USD(token1.Symbol)
	if !m.PairSupported || !ok0 || !ok1 {
		return m
	}

	tvl := new(big.Rat)
	tvl.Add(tvl, mulUSD(token0.PoolBalance, token0.Decimals, usd0))
	tvl.Add(tvl, mulUSD(token1.PoolBalance, token1.Decimals, usd1))
	m.TVLUSD, _ = tvl.Float64()

	volume := new(big.Rat)
	for _, swap := range swaps {
		volume.Add(volume, swapUSD(swap, token0, token1, usd0, usd1))
	}
	m.VolumeUSD, _ = volume.Float64()

	dailyFees := new(big.Rat).Mul(volume, feeRat(state.FeePPM))
	m.DailyFeesUSD, _ = dailyFees.Float64()

	yearlyFees := new(big.Rat).Mul(dailyFees, big.NewRat(daysPerYear, 1))
	m.YearlyFeesUSD, _ = yearlyFees.Float64()

	if tvl.Sign() > 0 {
		apr := new(big.Rat).Quo(yearlyFees, tvl)
		apr.Mul(apr, big.NewRat(100, 1))
		m.APRPercent, _ = apr.Float64()
	}

	return m
}

// swapUSD attributes a USD value to one swap. The attribution branches
// on the amount0 sign: when token0 left the pool the trade is valued on
// the token0 leg at token0's reference price, otherwise on the token1
// leg at token1's reference price.
func swapUSD(swap model.SwapEvent, token0, token1 model.TokenInfo, usd0, usd1 float64) *big.Rat {
	var usd *big.Rat
	if swap.Amount0 != nil && swap.Amount0.Sign() < 0 {
		usd = mulUSD(swap.Amount0, token0.Decimals, usd0)
	} else {
		usd = mulUSD(swap.Amount1, token1.Decimals, usd1)
	}
	return usd.Abs(usd)
}

// PriceFromSqrtX96 derives the pool price both ways from the Q64.96
// square-root encoding, adjusting for the decimals gap with a signed
// exponent. Intermediates stay in big.Float; float64 only at the end.
func PriceFromSqrtX96(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8) (price0Per1, price1Per0 float64) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return 0, 0
	}

	sqrt := new(big.Float).SetPrec(priceFloatPrec).SetInt(sqrtPriceX96)
	q96 := new(big.Float).SetPrec(priceFloatPrec).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

	ratio := new(big.Float).SetPrec(priceFloatPrec).Quo(sqrt, q96)
	price := new(big.Float).SetPrec(priceFloatPrec).Mul(ratio, ratio)

	exp := int(decimals0) - int(decimals1)
	if exp != 0 {
		scale := new(big.Float).SetPrec(priceFloatPrec).SetInt(pow10(abs(exp)))
		if exp > 0 {
			price.Mul(price, scale)
		} else {
			price.Quo(price, scale)
		}
	}

	inverse := new(big.Float).SetPrec(priceFloatPrec).Quo(
		new(big.Float).SetPrec(priceFloatPrec).SetInt64(1), price)

	price0Per1, _ = price.Float64()
	price1Per0, _ = inverse.Float64()
	return price0Per1, price1Per0
}

// mulUSD converts a raw token amount to human units and multiplies by a
// USD price, staying in exact rational arithmetic.
func mulUSD(raw *big.Int, decimals uint8, usd float64) *big.Rat {
	if raw == nil {
		return new(big.Rat)
	}
	amount := new(big.Rat).SetFrac(new(big.Int).Set(raw), pow10(int(decimals)))
	price := new(big.Rat)
	if price.SetFloat64(usd) == nil {
		return new(big.Rat)
	}
	return amount.Mul(amount, price)
}

func normalizeAmount(raw *big.Int, decimals uint8) float64 {
	if raw == nil {
		return 0
	}
	rat := new(big.Rat).SetFrac(new(big.Int).Set(raw), pow10(int(decimals)))
	out, _ := rat.Float64()
	return out
}

func feeRat(feePPM uint32) *big.Rat {
	return big.NewRat(int64(feePPM), 1_000_000)
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
