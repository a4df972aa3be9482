package domain

import "time"

// PriceRefresh is an async job that re-fetches a token's price from the
// configured provider.
type PriceRefresh struct {
	ID        string
	Address   string
	Status    PriceRefreshStatus
	Error     *string
	UpdatedAt time.Time
}

// QueuedRefresh is the minimal view a worker needs to process a claimed job.
type QueuedRefresh struct {
	ID      string
	Address string
}
