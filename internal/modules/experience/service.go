package experience

import (
	"context"
	"encoding/json"
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
	experiences *repository.ExperienceRepository
}

func NewService(experiences *repository.ExperienceRepository) *Service {
	return &Service{experiences: experiences}
}

func (s *Service) Create(ctx context.Context, req ExperienceRequest) (*ExperienceView, error) {
	e, err := buildExperience(req)
	if err != nil {
		return nil, err
	}

	if err := s.experiences.Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return toView(e), nil
}

func (s *Service) Update(ctx context.Context, id int64, req ExperienceRequest) (*ExperienceView, error) {
	e, err := buildExperience(req)
	if err != nil {
		return nil, err
	}
	e.ID = id

	if err := s.experiences.Update(ctx, e); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case isUniqueViolation(err):
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	fresh, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(fresh), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.experiences.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*ExperienceView, error) {
	e, err := s.experiences.GetBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toView(e), nil
}

func (s *Service) List(ctx context.Context) ([]ExperienceView, error) {
	es, err := s.experiences.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ExperienceView, 0, len(es))
	for i := range es {
		out = append(out, *toView(&es[i]))
	}
	return out, nil
}

func buildExperience(req ExperienceRequest) (*domain.Experience, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}

	sl := strings.TrimSpace(req.Slug)
	if sl == "" {
		sl = slug.Make(title)
	} else {
		sl = slug.Make(sl)
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(req.WhatToKnow, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}

	e := &domain.Experience{
		Title:            title,
		Slug:             sl,
		Category:         req.Category,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		WhatToKnow:       raw,
	}

	for _, img := range req.Images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, fmt.Errorf("image url must not be empty: %w", ErrValidation)
		}
		alt := img.AltText
		if alt == "" {
			alt = "Image for " + title
		}
		e.Images = append(e.Images, domain.Image{URL: img.URL, AltText: alt})
	}

	return e, nil
}

func toView(e *domain.Experience) *ExperienceView {
	v := &ExperienceView{
		ID:               e.ID,
		Title:            e.Title,
		Slug:             e.Slug,
		Category:         e.Category,
		ShortDescription: e.ShortDescription,
		LongDescription:  e.LongDescription,
		WhatToKnow:       []string{},
		Images:           []ImageView{},
	}
	if len(e.WhatToKnow) > 0 {
		// Tolerate hand-edited rows that are not valid JSON.
		_ = json.Unmarshal(e.WhatToKnow, &v.WhatToKnow)
	}
	for _, img := range e.Images {
		v.Images = append(v.Images, ImageView{ID: img.ID, URL: img.URL, AltText: img.AltText})
	}
	return v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "23505")
}
