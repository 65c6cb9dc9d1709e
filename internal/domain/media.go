package domain

import "time"

// MediaStatus represents the collection status of a tracked media record.
// Values include MediaStatusCollected, MediaStatusWanted, and MediaStatusPending.
type MediaStatus string

const (
	MediaStatusCollected MediaStatus = "collected"
	MediaStatusWanted    MediaStatus = "wanted"
	MediaStatusPending   MediaStatus = "pending"
)

// Media represents one locally tracked title/year record, imported from an
// upstream library or added by hand, to be reconciled against Radarr/Sonarr.
type Media struct {
	ID            string      `gorm:"type:text;primaryKey" json:"id"`
	Title         string      `gorm:"type:text;not null;index:idx_media_title" json:"title"`
	OriginalTitle string      `gorm:"type:text" json:"original_title,omitempty"`
	Year          int         `json:"year,omitempty"`
	MediaType     string      `gorm:"type:text;not null;index:idx_media_type" json:"media_type"`
	Category      string      `gorm:"type:text" json:"category,omitempty"`
	Language      string      `gorm:"type:text" json:"language,omitempty"`
	Source        string      `gorm:"type:text" json:"source,omitempty"`
	SourceRef     string      `gorm:"type:text" json:"source_ref,omitempty"`
	Status        MediaStatus `gorm:"type:text;index:idx_media_status;default:pending" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Media.
func (Media) TableName() string {
	return "media"
}

// LookupTitle returns the title to use for upstream lookups, preferring
// the original-language title when present.
func (m Media) LookupTitle() string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.Title
}
