package domain

import "time"

// ListSource is a crawlable forum list page and the default tags applied
// to every item it yields. Quality and Language, when set, pin those
// fields instead of inferring them from the page annotations.
type ListSource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	MediaType string    `gorm:"type:text;not null" json:"media_type"`
	Category  string    `gorm:"type:text" json:"category,omitempty"`
	Quality   string    `gorm:"type:text" json:"quality,omitempty"`
	Language  string    `gorm:"type:text" json:"language,omitempty"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ListSource.
func (ListSource) TableName() string {
	return "list_sources"
}
