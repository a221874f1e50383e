package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState is the pool's mutable on-chain state, snapshotted once per run.
type PoolState struct {
	Address      common.Address
	Token0       common.Address
	Token1       common.Address
	SqrtPriceX96 *big.Int
	Tick         int32
	Liquidity    *big.Int
	FeePPM       uint32
}

// FeeFraction returns the fee tier as a fraction of each trade.
func (p PoolState) FeeFraction() float64 {
	return float64(p.FeePPM) / 1e6
}
