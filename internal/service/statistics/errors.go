package statistics

import "errors"

// Sentinel errors for the statistics service layer.
var (
	ErrMissingCampaign = errors.New("campaign id is required")
)
