package analytics

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"poolLens/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	if b == 0 {
		return math.Abs(a) <= tol
	}
	return math.Abs(a-b)/math.Abs(b) <= tol
}

func TestPriceInverseProduct(t *testing.T) {
	cases := []struct {
		sqrt   *big.Int
		d0, d1 uint8
	}{
		{new(big.Int).Lsh(big.NewInt(1), 96), 18, 8},
		{new(big.Int).Lsh(big.NewInt(3), 95), 18, 18},
		{big.NewInt(1 << 50), 6, 18},
		{mustBig("5602277097478614198912276234240"), 18, 6},
		{mustBig("79228162514264337593543950336"), 0, 0},
	}

	for _, tc := range cases {
		p01, p10 := PriceFromSqrtX96(tc.sqrt, tc.d0, tc.d1)
		if !almostEqual(p01*p10, 1, 1e-9) {
			t.Fatalf("sqrt=%s d0=%d d1=%d: p01*p10 = %g", tc.sqrt, tc.d0, tc.d1, p01*p10)
		}
	}
}

func TestPriceZeroSqrt(t *testing.T) {
	p01, p10 := PriceFromSqrtX96(big.NewInt(0), 18, 8)
	if p01 != 0 || p10 != 0 {
		t.Fatalf("expected zero prices, got %g %g", p01, p10)
	}
}

func TestPriceDecimalsAdjustment(t *testing.T) {
	// sqrtPriceX96 = 2^96 means a raw price ratio of exactly 1; the
	// 18-vs-8 decimals gap scales it to 1e10.
	p01, _ := PriceFromSqrtX96(new(big.Int).Lsh(big.NewInt(1), 96), 18, 8)
	if !almostEqual(p01, 1e10, 1e-12) {
		t.Fatalf("price0per1 = %g, want 1e10", p01)
	}
}

func wethWbtcFixture() (model.PoolState, model.TokenInfo, model.TokenInfo, model.PriceTable) {
	state := model.PoolState{
		Address:      common.HexToAddress("0x1111111111111111111111111111111111111111"),
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
		Liquidity:    big.NewInt(1),
		FeePPM:       3000,
	}
	weth := model.TokenInfo{
		Symbol:      "WETH",
		Decimals:    18,
		PoolBalance: new(big.Int).Mul(big.NewInt(10), pow10(18)),
	}
	wbtc := model.TokenInfo{
		Symbol:      "WBTC",
		Decimals:    8,
		PoolBalance: pow10(8),
	}
	prices := model.PriceTable{"WETH": 3000, "WBTC": 60000}
	return state, weth, wbtc, prices
}

func TestComputeTVLScenario(t *testing.T) {
	state, weth, wbtc, prices := wethWbtcFixture()

	m := Compute(state, weth, wbtc, prices, nil)
	if !almostEqual(m.TVLUSD, 90000, 1e-9) {
		t.Fatalf("TVL = %g, want 90000", m.TVLUSD)
	}
	if m.Balance0 != 10 || m.Balance1 != 1 {
		t.Fatalf("balances = %g %g", m.Balance0, m.Balance1)
	}
	if !m.PairSupported {
		t.Fatalf("pair should be supported")
	}
}

func TestComputeVolumeSingleSwap(t *testing.T) {
	state, weth, wbtc, prices := wethWbtcFixture()

	// 1 WETH out, 0.2 WBTC in: the amount0<0 branch prices the trade
	// on the token0 leg at WETH's reference price.
	swaps := []model.SwapEvent{{
		Amount0: new(big.Int).Neg(pow10(18)),
		Amount1: big.NewInt(2 * 1e7),
	}}

	m := Compute(state, weth, wbtc, prices, swaps)
	if !almostEqual(m.VolumeUSD, 3000, 1e-9) {
		t.Fatalf("volume = %g, want 3000", m.VolumeUSD)
	}
	if m.SwapCount != 1 {
		t.Fatalf("swap count = %d", m.SwapCount)
	}
}

func TestComputeVolumeAttributionBranches(t *testing.T) {
	state, weth, wbtc, prices := wethWbtcFixture()

	swaps := []model.SwapEvent{
		// token0 out: |amount0| * usd(WETH) = 1 * 3000.
		{Amount0: new(big.Int).Neg(pow10(18)), Amount1: big.NewInt(2 * 1e7)},
		// token0 in: |amount1| * usd(WBTC) = 0.1 * 60000.
		{Amount0: new(big.Int).Div(pow10(18), big.NewInt(2)), Amount1: big.NewInt(-1e7)},
	}

	m := Compute(state, weth, wbtc, prices, swaps)
	if !almostEqual(m.VolumeUSD, 9000, 1e-9) {
		t.Fatalf("volume = %g, want 9000", m.VolumeUSD)
	}
}

func TestComputeFeesAndAPR(t *testing.T) {
	state, weth, wbtc, prices := wethWbtcFixture()

	swaps := []model.SwapEvent{{
		Amount0: new(big.Int).Neg(pow10(18)),
		Amount1: big.NewInt(2 * 1e7),
	}}

	m := Compute(state, weth, wbtc, prices, swaps)
	// volume 3000 at a 0.3% fee tier: 9/day, 3285/year, over 90000 TVL.
	if !almostEqual(m.DailyFeesUSD, 9, 1e-9) {
		t.Fatalf("daily fees = %g, want 9", m.DailyFeesUSD)
	}
	if !almostEqual(m.YearlyFeesUSD, 3285, 1e-9) {
		t.Fatalf("yearly fees = %g, want 3285", m.YearlyFeesUSD)
	}
	if !almostEqual(m.APRPercent, 3.65, 1e-9) {
		t.Fatalf("APR = %g, want 3.65", m.APRPercent)
	}
}

func TestComputeUnsupportedPair(t *testing.T) {
	state, token0, token1, _ := wethWbtcFixture()
	token0.Symbol = "USDC"
	token1.Symbol = "DAI"
	prices := model.PriceTable{"USDC": 1, "DAI": 1}

	swaps := []model.SwapEvent{{
		Amount0: new(big.Int).Neg(pow10(18)),
		Amount1: big.NewInt(2 * 1e7),
	}}

	m := Compute(state, token0, token1, prices, swaps)
	if m.PairSupported {
		t.Fatalf("pair should not be supported")
	}
	if m.TVLUSD != 0 || m.VolumeUSD != 0 || m.APRPercent != 0 {
		t.Fatalf("expected zero TVL/volume/APR, got %+v", m)
	}
}

func TestComputeAPRZeroWhenTVLZero(t *testing.T) {
	state, weth, wbtc, prices := wethWbtcFixture()
	weth.PoolBalance = big.NewInt(0)
	wbtc.PoolBalance = big.NewInt(0)

	swaps := []model.SwapEvent{{
		Amount0: new(big.Int).Neg(pow10(18)),
		Amount1: big.NewInt(2 * 1e7),
	}}

	m := Compute(state, weth, wbtc, prices, swaps)
	if m.TVLUSD != 0 {
		t.Fatalf("TVL = %g, want 0", m.TVLUSD)
	}
	if m.VolumeUSD == 0 || m.DailyFeesUSD == 0 {
		t.Fatalf("volume/fees should survive zero TVL: %+v", m)
	}
	if m.APRPercent != 0 {
		t.Fatalf("APR = %g, want 0 for zero TVL", m.APRPercent)
	}
}

func TestPairSupported(t *testing.T) {
	if !PairSupported("WETH", "WBTC") || !PairSupported("WBTC", "WETH") {
		t.Fatalf("reference pair should be supported both ways")
	}
	if PairSupported("WETH", "USDC") || PairSupported("", "") {
		t.Fatalf("non-reference pair should not be supported")
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int literal: " + s)
	}
	return v
}
