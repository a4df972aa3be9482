package domain

import "github.com/mr-tron/base58"

// WrappedSOLMint is the mint address of wrapped SOL, the native asset
// every price-discovery pair is quoted against.
const WrappedSOLMint = "So11111111111111111111111111111111111111112"

// ValidateAddress reports whether s is a syntactically valid Solana
// address: base58 text decoding to a 32-byte public key.
func ValidateAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
