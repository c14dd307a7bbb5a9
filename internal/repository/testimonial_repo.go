package repository

import (
	"context"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

type TestimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TestimonialRepository) List(ctx context.Context) ([]domain.Testimonial, error) {
	var ts []domain.Testimonial
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

func (r *TestimonialRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Testimonial{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"author_name":      t.AuthorName,
			"author_image_url": t.AuthorImageURL,
			"testimonial_text": t.TestimonialText,
			"rating":           t.Rating,
			"is_featured":      t.IsFeatured,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Testimonial{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
