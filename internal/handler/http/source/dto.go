package source

import "feed-aggregator/internal/domain/entity"

// DTO is the JSON form of a registered source.
type DTO struct {
	URL                    string `json:"url"`
	RefreshIntervalMinutes int    `json:"refreshIntervalMinutes"`
}

// upsertRequest is the body of PUT /sources. An omitted interval means
// entity.DefaultRefreshIntervalMinutes.
type upsertRequest struct {
	URL                    string `json:"url"`
	RefreshIntervalMinutes *int   `json:"refreshIntervalMinutes"`
}

func toDTO(src *entity.Source) DTO {
	return DTO{URL: src.URI.String(), RefreshIntervalMinutes: src.RefreshIntervalMinutes}
}
