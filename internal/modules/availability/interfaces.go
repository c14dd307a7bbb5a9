package availability

import (
	"context"

	"chaletbook/internal/domain"
)

// BookingRepository is the persistence boundary the resolver writes through.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	ConfirmedRanges(ctx context.Context, propertyID int64) ([]domain.DateRange, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (int64, error)
	ConfirmWithGuard(ctx context.Context, id int64) (*domain.Booking, error)
}

// PropertyFinder resolves the property an inquiry targets.
type PropertyFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Property, error)
}

// EventPublisher receives booking lifecycle events for the admin feed.
// Publishing is fire-and-forget; a nil publisher disables it.
type EventPublisher interface {
	InquiryCreated(b *domain.Booking)
	BookingStatusChanged(b *domain.Booking)
}
