package repository

import (
	"context"

	"github.com/davide/collectarr/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaRepository handles tracked media records.
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *MediaRepository: repository instance bound to db.
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new media record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - media: media record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *MediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// Upsert creates or updates a media record keyed by source fields.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - media: media record to create or update.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *MediaRepository) Upsert(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "source_ref"}},
		UpdateAll: true,
	}).Create(media).Error
}

// GetByID retrieves a media record by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: media ID.
// Returns:
//   - *domain.Media: media record if found.
//   - error: non-nil if lookup fails.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	var media domain.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// ListWanted returns wanted media records, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mediaType: optional media type filter ("movie", "series"); empty matches all.
//   - limit: maximum number of records; non-positive means no limit.
// Returns:
//   - []domain.Media: wanted records.
//   - error: non-nil if the query fails.
func (r *MediaRepository) ListWanted(ctx context.Context, mediaType string, limit int) ([]domain.Media, error) {
	q := r.db.WithContext(ctx).Where("status = ?", domain.MediaStatusWanted).Order("updated_at DESC")
	if mediaType != "" {
		q = q.Where("media_type = ?", mediaType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var media []domain.Media
	if err := q.Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// SetStatus updates the collection status of a media record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: media ID.
//   - status: new status value.
// Returns:
//   - error: non-nil if the update fails.
func (r *MediaRepository) SetStatus(ctx context.Context, id string, status domain.MediaStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Media{}).Where("id = ?", id).Update("status", status).Error
}
