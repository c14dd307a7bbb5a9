package availability

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

// Service decides availability and records reservations without permitting
// double-booking. It holds no state across requests.
type Service struct {
	bookings   BookingRepository
	properties PropertyFinder
	events     EventPublisher
}

func NewService(bookings BookingRepository, properties PropertyFinder, events EventPublisher) *Service {
	return &Service{
		bookings:   bookings,
		properties: properties,
		events:     events,
	}
}

// GetUnavailableRanges returns the half-open [from, to) spans blocked by
// confirmed bookings. The upper bound is the first day available again.
func (s *Service) GetUnavailableRanges(ctx context.Context, propertyID int64) ([]domain.DateRange, error) {
	if propertyID <= 0 {
		return nil, fieldErr("property_id", "must be positive")
	}
	ranges, err := s.bookings.ConfirmedRanges(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if ranges == nil {
		ranges = []domain.DateRange{}
	}
	return ranges, nil
}

// CreateInquiry records a guest request as a pending booking. Pending
// inquiries never block availability, so no conflict check happens here;
// overlapping inquiries are resolved at confirmation time.
func (s *Service) CreateInquiry(ctx context.Context, req CreateInquiryRequest) (*domain.Booking, error) {
	if req.PropertyID <= 0 {
		return nil, fieldErr("property_id", "is required")
	}
	if req.CheckIn.IsZero() {
		return nil, fieldErr("check_in", "is required")
	}
	if req.CheckOut.IsZero() {
		return nil, fieldErr("check_out", "is required")
	}
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, fieldErr("check_out", "must be after check_in")
	}
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, fieldErr("client_name", "is required")
	}
	if strings.TrimSpace(req.ClientPhone) == "" {
		return nil, fieldErr("client_phone", "is required")
	}
	if req.Guests < 0 {
		return nil, fieldErr("guests", "must not be negative")
	}

	var idemKey *string
	if req.IdempotencyKey != "" {
		if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
			return nil, fieldErr("idempotency_key", "must be a UUID")
		}
		existing, err := s.bookings.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		k := req.IdempotencyKey
		idemKey = &k
	}

	prop, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Guests > 0 && prop.Guests > 0 && req.Guests > prop.Guests {
		return nil, fieldErr("guests", "exceeds property capacity")
	}

	b := &domain.Booking{
		PropertyID:     req.PropertyID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientPhone:    strings.TrimSpace(req.ClientPhone),
		ClientEmail:    strings.TrimSpace(req.ClientEmail),
		Status:         domain.BookingPending,
		IdempotencyKey: idemKey,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		// A concurrent retry with the same idempotency key can lose the
		// race to the unique index; replay the winner's row.
		if idemKey != nil && isUniqueViolation(err) {
			return s.bookings.GetByIdempotencyKey(ctx, *idemKey)
		}
		return nil, err
	}

	if s.events != nil {
		s.events.InquiryCreated(b)
	}
	return b, nil
}

// SetBookingStatus applies an admin status change. Confirming re-checks for
// overlap atomically with the write; pending and cancelled targets apply
// unconditionally. Cancellation is one-way.
func (s *Service) SetBookingStatus(ctx context.Context, bookingID int64, newStatus string) (*domain.Booking, error) {
	st, ok := domain.ParseBookingStatus(newStatus)
	if !ok {
		return nil, fieldErr("status", "must be pending, confirmed or cancelled")
	}

	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.Status == domain.BookingCancelled && st != domain.BookingCancelled {
		return nil, fieldErr("status", "booking is cancelled")
	}

	var updated *domain.Booking
	if st == domain.BookingConfirmed {
		updated, err = s.bookings.ConfirmWithGuard(ctx, bookingID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrOverlap), isExclusionViolation(err):
				return nil, ErrConflict
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrNotFound
			}
			return nil, err
		}
	} else {
		rows, err := s.bookings.UpdateStatus(ctx, bookingID, st)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, ErrNotFound
		}
		current.Status = st
		updated = current
	}

	if s.events != nil {
		s.events.BookingStatusChanged(updated)
	}
	return updated, nil
}

// isExclusionViolation recognizes the bookings_no_overlap constraint firing
// when two confirmations race past the transactional check.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" && pgErr.ConstraintName == "bookings_no_overlap"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "23505")
}
