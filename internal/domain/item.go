package domain

// CatalogItem is one parsed listing record for a specific release.
// DetailURL is the primary identity key, with TopicID as fallback.
type CatalogItem struct {
	Title      string `json:"title"`
	DetailURL  string `json:"detail_url"`
	TopicID    string `json:"topic_id,omitempty"`
	Info       string `json:"info,omitempty"`
	Quality    string `json:"quality,omitempty"`
	Language   string `json:"language,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
	Category   string `json:"category,omitempty"`
	Year       int    `json:"year,omitempty"`
	SourceName string `json:"source_name,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Key returns the identity key used for deduplication across sources.
// An empty key means the item cannot be stored.
func (i CatalogItem) Key() string {
	if i.DetailURL != "" {
		return i.DetailURL
	}
	return i.TopicID
}
