package repository

import (
	"context"

	"github.com/davide/collectarr/internal/domain"
	"gorm.io/gorm"
)

// SourceRepository handles list-source configuration records.
type SourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new SourceRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *SourceRepository: repository instance bound to db.
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// ListEnabled returns all enabled sources ordered by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.ListSource: enabled sources in crawl order.
//   - error: non-nil if the query fails.
func (r *SourceRepository) ListEnabled(ctx context.Context) ([]domain.ListSource, error) {
	var sources []domain.ListSource
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("id").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// List returns all sources, optionally including disabled ones.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - includeDisabled: when false, only enabled sources are returned.
// Returns:
//   - []domain.ListSource: sources ordered by id.
//   - error: non-nil if the query fails.
func (r *SourceRepository) List(ctx context.Context, includeDisabled bool) ([]domain.ListSource, error) {
	if !includeDisabled {
		return r.ListEnabled(ctx)
	}
	var sources []domain.ListSource
	if err := r.db.WithContext(ctx).Order("id").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// GetByID retrieves a source by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: source ID.
// Returns:
//   - *domain.ListSource: source record if found.
//   - error: non-nil if lookup fails.
func (r *SourceRepository) GetByID(ctx context.Context, id uint) (*domain.ListSource, error) {
	var src domain.ListSource
	if err := r.db.WithContext(ctx).First(&src, id).Error; err != nil {
		return nil, err
	}
	return &src, nil
}

// Create inserts a new source record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: source record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *SourceRepository) Create(ctx context.Context, src *domain.ListSource) error {
	return r.db.WithContext(ctx).Create(src).Error
}

// Update updates an existing source record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: source record with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *SourceRepository) Update(ctx context.Context, src *domain.ListSource) error {
	return r.db.WithContext(ctx).Save(src).Error
}

// Delete removes a source record by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: source ID.
// Returns:
//   - error: non-nil if the delete fails.
func (r *SourceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.ListSource{}, id).Error
}
