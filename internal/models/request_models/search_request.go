package request_models

import "strings"

type SearchRequest struct {
	Query  string `json:"query"`
	Limit  *int   `json:"limit"`
	Region string `json:"region"`
	// State is accepted as an alias of Region.
	State string `json:"state"`
}

// RegionCode returns the trimmed region filter, preferring Region over State.
func (r SearchRequest) RegionCode() string {
	if region := strings.TrimSpace(r.Region); region != "" {
		return region
	}
	return strings.TrimSpace(r.State)
}
