package repository

import (
	"context"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

type ExperienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) Create(ctx context.Context, e *domain.Experience) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return r.insertImages(tx, e)
	})
}

func (r *ExperienceRepository) Update(ctx context.Context, e *domain.Experience) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Experience{}).
			Where("id = ?", e.ID).
			Updates(map[string]any{
				"title":             e.Title,
				"slug":              e.Slug,
				"category":          e.Category,
				"short_description": e.ShortDescription,
				"long_description":  e.LongDescription,
				"what_to_know":      e.WhatToKnow,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("owner_type = ? AND owner_id = ?", domain.ImageOwnerExperience, e.ID).
			Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		return r.insertImages(tx, e)
	})
}

func (r *ExperienceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", domain.ImageOwnerExperience, id).
			Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Experience{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ExperienceRepository) insertImages(tx *gorm.DB, e *domain.Experience) error {
	if len(e.Images) == 0 {
		return nil
	}
	images := make([]domain.Image, 0, len(e.Images))
	for i, img := range e.Images {
		img.OwnerType = domain.ImageOwnerExperience
		img.OwnerID = e.ID
		img.Category = domain.ImageCategoryGallery
		img.SortOrder = i + 1
		img.ID = 0
		images = append(images, img)
	}
	return tx.Create(&images).Error
}

func (r *ExperienceRepository) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	var e domain.Experience
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExperienceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Experience, error) {
	var e domain.Experience
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&e).Error; err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExperienceRepository) List(ctx context.Context) ([]domain.Experience, error) {
	var es []domain.Experience
	if err := r.db.WithContext(ctx).Order("id").Find(&es).Error; err != nil {
		return nil, err
	}
	for i := range es {
		if err := r.loadImages(ctx, &es[i]); err != nil {
			return nil, err
		}
	}
	return es, nil
}

func (r *ExperienceRepository) loadImages(ctx context.Context, e *domain.Experience) error {
	e.Images = make([]domain.Image, 0)
	return r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", domain.ImageOwnerExperience, e.ID).
		Order("sort_order, id").
		Find(&e.Images).Error
}
