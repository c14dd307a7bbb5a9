package repository

import (
	"context"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts the property and its child sets (images, amenity links,
// rules) in one transaction.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return r.insertChildren(tx, p)
	})
}

// Update rewrites the property row and replaces every child set. The
// delete-then-insert strategy matches the admin form, which always submits
// the full desired state; running it inside one transaction means a failure
// can never leave a property with half its images.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Property{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{
				"name":              p.Name,
				"slug":              p.Slug,
				"latitude":          p.Latitude,
				"longitude":         p.Longitude,
				"category":          p.Category,
				"guests":            p.Guests,
				"bedrooms":          p.Bedrooms,
				"beds":              p.Beds,
				"bathrooms":         p.Bathrooms,
				"rating":            p.Rating,
				"price_high":        p.PriceHigh,
				"price_mid":         p.PriceMid,
				"price_low":         p.PriceLow,
				"map_node_id":       p.MapNodeID,
				"video_url":         p.VideoURL,
				"featured":          p.Featured,
				"description":       p.Description,
				"optional_services": p.OptionalServices,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := r.deleteChildren(tx, p.ID); err != nil {
			return err
		}
		return r.insertChildren(tx, p)
	})
}

// Delete removes the property and everything it owns, bookings included.
func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).
			Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PropertyRepository) deleteChildren(tx *gorm.DB, propertyID int64) error {
	if err := tx.Where("owner_type = ? AND owner_id = ?", domain.ImageOwnerProperty, propertyID).
		Delete(&domain.Image{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", propertyID).
		Delete(&domain.PropertyAmenity{}).Error; err != nil {
		return err
	}
	return tx.Where("property_id = ?", propertyID).
		Delete(&domain.PropertyRule{}).Error
}

func (r *PropertyRepository) insertChildren(tx *gorm.DB, p *domain.Property) error {
	images := make([]domain.Image, 0, len(p.GalleryImages)+len(p.BlueprintImages))
	for i, img := range p.GalleryImages {
		img.OwnerType = domain.ImageOwnerProperty
		img.OwnerID = p.ID
		img.Category = domain.ImageCategoryGallery
		img.SortOrder = i + 1
		img.ID = 0
		images = append(images, img)
	}
	for i, img := range p.BlueprintImages {
		img.OwnerType = domain.ImageOwnerProperty
		img.OwnerID = p.ID
		img.Category = domain.ImageCategoryBlueprint
		img.SortOrder = i + 1
		img.ID = 0
		images = append(images, img)
	}
	if len(images) > 0 {
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
	}

	if len(p.Amenities) > 0 {
		links := make([]domain.PropertyAmenity, 0, len(p.Amenities))
		for _, a := range p.Amenities {
			links = append(links, domain.PropertyAmenity{PropertyID: p.ID, AmenityID: a.ID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}

	if len(p.Rules) > 0 {
		rules := make([]domain.PropertyRule, 0, len(p.Rules))
		for _, rule := range p.Rules {
			rules = append(rules, domain.PropertyRule{PropertyID: p.ID, RuleText: rule.RuleText})
		}
		if err := tx.Create(&rules).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Property, error) {
	var p domain.Property
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	var ps []domain.Property
	if err := r.db.WithContext(ctx).Order("id").Find(&ps).Error; err != nil {
		return nil, err
	}
	for i := range ps {
		if err := r.loadChildren(ctx, &ps[i]); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// MapNodeIndex maps map-node references to property ids for the bulk
// availability import. Properties without a node are not listed.
func (r *PropertyRepository) MapNodeIndex(ctx context.Context) (map[string]int64, error) {
	var rows []domain.Property
	err := r.db.WithContext(ctx).
		Select("id", "map_node_id").
		Where("map_node_id IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int64, len(rows))
	for _, p := range rows {
		if p.MapNodeID != nil && *p.MapNodeID != "" {
			idx[*p.MapNodeID] = p.ID
		}
	}
	return idx, nil
}

func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Property{}).Count(&cnt).Error
	return cnt, err
}

type PropertySearch struct {
	Guests       int
	AmenitySlugs []string
	CheckIn      domain.Date
	CheckOut     domain.Date
}

// Search filters by minimum capacity, required amenities (all must match)
// and a free date range. A property is excluded from a dated search when a
// confirmed booking overlaps the half-open [CheckIn, CheckOut) window.
func (r *PropertyRepository) Search(ctx context.Context, f PropertySearch) ([]domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&domain.Property{})

	if f.Guests > 0 {
		q = q.Where("guests >= ?", f.Guests)
	}

	if len(f.AmenitySlugs) > 0 {
		q = q.Where(`properties.id IN (
			SELECT pa.property_id
			FROM property_amenities pa
			JOIN amenities a ON a.id = pa.amenity_id
			WHERE a.slug IN ?
			GROUP BY pa.property_id
			HAVING COUNT(DISTINCT a.slug) = ?
		)`, f.AmenitySlugs, len(f.AmenitySlugs))
	}

	if !f.CheckIn.IsZero() && !f.CheckOut.IsZero() {
		q = q.Where(`properties.id NOT IN (
			SELECT b.property_id
			FROM bookings b
			WHERE b.status = ?
			  AND b.check_in < ?
			  AND b.check_out > ?
		)`, domain.BookingConfirmed, f.CheckOut, f.CheckIn)
	}

	var ps []domain.Property
	if err := q.Order("properties.id").Find(&ps).Error; err != nil {
		return nil, err
	}
	for i := range ps {
		if err := r.loadChildren(ctx, &ps[i]); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (r *PropertyRepository) loadChildren(ctx context.Context, p *domain.Property) error {
	var images []domain.Image
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", domain.ImageOwnerProperty, p.ID).
		Order("sort_order, id").
		Find(&images).Error
	if err != nil {
		return err
	}
	p.GalleryImages = make([]domain.Image, 0)
	p.BlueprintImages = make([]domain.Image, 0)
	for _, img := range images {
		if img.Category == domain.ImageCategoryBlueprint {
			p.BlueprintImages = append(p.BlueprintImages, img)
		} else {
			p.GalleryImages = append(p.GalleryImages, img)
		}
	}

	p.Amenities = make([]domain.Amenity, 0)
	err = r.db.WithContext(ctx).
		Joins("JOIN property_amenities pa ON pa.amenity_id = amenities.id").
		Where("pa.property_id = ?", p.ID).
		Order("amenities.id").
		Find(&p.Amenities).Error
	if err != nil {
		return err
	}

	p.Rules = make([]domain.PropertyRule, 0)
	return r.db.WithContext(ctx).
		Where("property_id = ?", p.ID).
		Order("id").
		Find(&p.Rules).Error
}
