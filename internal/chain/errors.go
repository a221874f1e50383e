package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrChainUnavailable marks transport or node failures: the RPC endpoint
// could not be reached or did not answer.
var ErrChainUnavailable = errors.New("chain unavailable")

// ErrCallReverted marks an eth_call that the node executed but that
// failed on-chain, e.g. a method call against a non-pool address.
var ErrCallReverted = errors.New("contract call reverted")

func wrapTransport(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrChainUnavailable, err)
}

func wrapCall(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "revert") || strings.Contains(msg, "execution error") {
		return fmt.Errorf("%w: %v", ErrCallReverted, err)
	}
	return fmt.Errorf("%w: %v", ErrChainUnavailable, err)
}
