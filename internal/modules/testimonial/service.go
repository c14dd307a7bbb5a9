package testimonial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type TestimonialRequest struct {
	AuthorName      string `json:"author_name"`
	AuthorImageURL  string `json:"author_image_url"`
	TestimonialText string `json:"testimonial_text"`
	Rating          int    `json:"rating"`
	IsFeatured      bool   `json:"is_featured"`
}

type Service struct {
	testimonials *repository.TestimonialRepository
}

func NewService(testimonials *repository.TestimonialRepository) *Service {
	return &Service{testimonials: testimonials}
}

func (s *Service) Create(ctx context.Context, req TestimonialRequest) (*domain.Testimonial, error) {
	t, err := build(req)
	if err != nil {
		return nil, err
	}
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, req TestimonialRequest) (*domain.Testimonial, error) {
	t, err := build(req)
	if err != nil {
		return nil, err
	}
	t.ID = id

	if err := s.testimonials.Update(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.testimonials.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Testimonial, error) {
	return s.testimonials.List(ctx)
}

func build(req TestimonialRequest) (*domain.Testimonial, error) {
	if strings.TrimSpace(req.AuthorName) == "" {
		return nil, fmt.Errorf("author_name is required: %w", ErrValidation)
	}
	if strings.TrimSpace(req.TestimonialText) == "" {
		return nil, fmt.Errorf("testimonial_text is required: %w", ErrValidation)
	}
	if req.Rating < 0 || req.Rating > 10 {
		return nil, fmt.Errorf("rating must be between 0 and 10: %w", ErrValidation)
	}

	return &domain.Testimonial{
		AuthorName:      strings.TrimSpace(req.AuthorName),
		AuthorImageURL:  req.AuthorImageURL,
		TestimonialText: req.TestimonialText,
		Rating:          req.Rating,
		IsFeatured:      req.IsFeatured,
	}, nil
}
