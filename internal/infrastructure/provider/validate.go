package provider

import "tokenprices-service/internal/domain"

// The validation gate runs before any network call: emptiness first, then
// per-element format validity.

func validateAddress(address string) error {
	if address == "" {
		return domain.ErrNoTokens
	}
	if !domain.ValidateAddress(address) {
		return &domain.InvalidAddressError{Address: address}
	}
	return nil
}

func validateAddresses(addresses []string) error {
	if len(addresses) == 0 {
		return domain.ErrNoTokens
	}
	for _, a := range addresses {
		if !domain.ValidateAddress(a) {
			return &domain.InvalidAddressError{Address: a}
		}
	}
	return nil
}
