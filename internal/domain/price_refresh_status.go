package domain

type PriceRefreshStatus string

const (
	PriceRefreshStatusQueued     PriceRefreshStatus = "queued"
	PriceRefreshStatusProcessing PriceRefreshStatus = "processing"
	PriceRefreshStatusDone       PriceRefreshStatus = "done"
	PriceRefreshStatusFailed     PriceRefreshStatus = "failed"
)
