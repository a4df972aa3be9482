package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNoTokens is returned when an operation is called with no token addresses.
	ErrNoTokens = errors.New("no token addresses provided")

	// ErrNoLiquidity is returned when an overview is requested for a token
	// whose selected pair has zero or unknown liquidity.
	ErrNoLiquidity = errors.New("no liquidity for token")

	// ErrTransactionNotFound is returned when the upstream reports no trading
	// pairs at all for a token, i.e. no trading activity rather than bad input.
	ErrTransactionNotFound = errors.New("no trading pairs found for token")
)

// InvalidAddressError reports an address that failed format validation.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid solana address: %q", e.Address)
}

// InvalidTokensError reports the full set of addresses an upstream could not
// price. The whole batch fails even when other addresses resolved.
type InvalidTokensError struct {
	Addresses []string
}

func (e *InvalidTokensError) Error() string {
	return "unable to price tokens: " + strings.Join(e.Addresses, ", ")
}

// UpstreamStatusError reports a non-success HTTP status from a provider.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d", e.Provider, e.StatusCode)
}
