package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

type Service struct {
	properties *repository.PropertyRepository
	amenities  *repository.AmenityRepository
}

func NewService(properties *repository.PropertyRepository, amenities *repository.AmenityRepository) *Service {
	return &Service{properties: properties, amenities: amenities}
}

func (s *Service) CreateProperty(ctx context.Context, req PropertyRequest) (*domain.Property, error) {
	p, err := s.buildProperty(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.properties.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.properties.GetByID(ctx, p.ID)
}

func (s *Service) UpdateProperty(ctx context.Context, id int64, req PropertyRequest) (*domain.Property, error) {
	p, err := s.buildProperty(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.properties.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case isUniqueViolation(err):
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.properties.GetByID(ctx, id)
}

func (s *Service) DeleteProperty(ctx context.Context, id int64) error {
	if err := s.properties.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*domain.Property, error) {
	p, err := s.properties.GetBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListProperties returns everything when q is empty, otherwise the filtered
// set. Date filters exclude properties with a confirmed booking overlapping
// the half-open [start, end) window.
func (s *Service) ListProperties(ctx context.Context, q SearchQuery) ([]domain.Property, error) {
	if q.Guests == 0 && len(q.Amenities) == 0 && q.StartDate == "" && q.EndDate == "" {
		return s.properties.List(ctx)
	}

	search := repository.PropertySearch{
		Guests:       q.Guests,
		AmenitySlugs: q.Amenities,
	}

	if q.StartDate != "" && q.EndDate != "" {
		start, err := domain.ParseDate(q.StartDate)
		if err != nil {
			return nil, fmt.Errorf("start_date: %w", ErrValidation)
		}
		end, err := domain.ParseDate(q.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end_date: %w", ErrValidation)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("end_date must be after start_date: %w", ErrValidation)
		}
		search.CheckIn = start
		search.CheckOut = end
	}

	return s.properties.Search(ctx, search)
}

func (s *Service) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.amenities.List(ctx)
}

func (s *Service) buildProperty(ctx context.Context, req PropertyRequest) (*domain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, fmt.Errorf("name must have at least 2 characters: %w", ErrValidation)
	}
	if req.Rating < 0 || req.Rating > 10 {
		return nil, fmt.Errorf("rating must be between 0 and 10: %w", ErrValidation)
	}
	// A zero price means the season is not offered; only negatives are invalid.
	for field, price := range map[string]float64{
		"price_high": req.PriceHigh,
		"price_mid":  req.PriceMid,
		"price_low":  req.PriceLow,
	} {
		if price < 0 {
			return nil, fmt.Errorf("%s must not be negative: %w", field, ErrValidation)
		}
	}
	if req.Guests < 0 || req.Bedrooms < 0 || req.Beds < 0 || req.Bathrooms < 0 {
		return nil, fmt.Errorf("capacity counts must not be negative: %w", ErrValidation)
	}

	sl := strings.TrimSpace(req.Slug)
	if sl == "" {
		sl = slug.Make(name)
	} else {
		sl = slug.Make(sl)
	}

	amenities, err := s.amenities.GetBySlugs(ctx, req.Amenities)
	if err != nil {
		return nil, err
	}

	p := &domain.Property{
		Name:             name,
		Slug:             sl,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Category:         req.Category,
		Guests:           req.Guests,
		Bedrooms:         req.Bedrooms,
		Beds:             req.Beds,
		Bathrooms:        req.Bathrooms,
		Rating:           req.Rating,
		PriceHigh:        req.PriceHigh,
		PriceMid:         req.PriceMid,
		PriceLow:         req.PriceLow,
		MapNodeID:        normalizeOptional(req.MapNodeID),
		VideoURL:         strings.TrimSpace(req.VideoURL),
		Featured:         req.Featured,
		Description:      req.Description,
		OptionalServices: req.OptionalServices,
		Amenities:        amenities,
	}

	for _, img := range req.GalleryImages {
		if strings.TrimSpace(img.URL) == "" {
			return nil, fmt.Errorf("gallery image url must not be empty: %w", ErrValidation)
		}
		p.GalleryImages = append(p.GalleryImages, domain.Image{URL: img.URL, AltText: img.AltText})
	}
	for _, img := range req.BlueprintImages {
		if strings.TrimSpace(img.URL) == "" {
			return nil, fmt.Errorf("blueprint image url must not be empty: %w", ErrValidation)
		}
		p.BlueprintImages = append(p.BlueprintImages, domain.Image{URL: img.URL, AltText: img.AltText})
	}
	for _, rule := range req.Rules {
		if strings.TrimSpace(rule) == "" {
			return nil, fmt.Errorf("rule text must not be empty: %w", ErrValidation)
		}
		p.Rules = append(p.Rules, domain.PropertyRule{RuleText: rule})
	}

	return p, nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "23505")
}
