package audience

import "errors"

// Sentinel errors for the audience service layer.
var (
	ErrUnknownAudience      = errors.New("unknown audience type")
	ErrMissingAudienceValue = errors.New("audience requires a filter value")
)
