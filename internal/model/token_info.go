package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo captures ERC20 metadata plus the pool's balance at snapshot time.
type TokenInfo struct {
	Address     common.Address
	Symbol      string
	Decimals    uint8
	PoolBalance *big.Int
}
