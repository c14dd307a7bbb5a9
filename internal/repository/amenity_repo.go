package repository

import (
	"context"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

type AmenityRepository struct {
	db *gorm.DB
}

func NewAmenityRepository(db *gorm.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	var as []domain.Amenity
	err := r.db.WithContext(ctx).Order("category, name").Find(&as).Error
	return as, err
}

// GetBySlugs resolves amenity slugs to rows; unknown slugs are skipped, the
// admin form only submits slugs it was given.
func (r *AmenityRepository) GetBySlugs(ctx context.Context, slugs []string) ([]domain.Amenity, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var as []domain.Amenity
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&as).Error
	return as, err
}

func (r *AmenityRepository) Create(ctx context.Context, a *domain.Amenity) error {
	return r.db.WithContext(ctx).Create(a).Error
}
