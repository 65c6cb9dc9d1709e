package domain

import "time"

// RefreshState tracks the progress of the single in-process catalog
// refresh run. A source that fails to fetch still increments
// ProcessedSources; ItemsCount only grows from successfully parsed pages.
type RefreshState struct {
	Running          bool       `json:"running"`
	TotalSources     int        `json:"total_sources"`
	ProcessedSources int        `json:"processed_sources"`
	CurrentSource    string     `json:"current_source,omitempty"`
	ItemsCount       int        `json:"items_count"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	Cancelled        bool       `json:"cancelled"`
	Error            string     `json:"error,omitempty"`
}
