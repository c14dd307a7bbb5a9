package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("import conflicts with confirmed bookings")
)

const defaultPerPage = 10

// Name written on imported blocks; they are system blocks, not guests.
const importClientName = "Blocked by system"

type Service struct {
	bookings   BookingStore
	properties PropertyStore
	presence   PresenceCounter
}

// NewService wires the admin dashboard. presence may be nil when no
// websocket hub is running, e.g. in tests.
func NewService(bookings BookingStore, properties PropertyStore, presence PresenceCounter) *Service {
	return &Service{bookings: bookings, properties: properties, presence: presence}
}

func (s *Service) ListBookings(ctx context.Context, q ListBookingsQuery) (*BookingListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Per < 1 {
		q.Per = defaultPerPage
	}
	if q.Status != "" {
		if _, ok := domain.ParseBookingStatus(q.Status); !ok {
			return nil, fmt.Errorf("unknown status %q: %w", q.Status, ErrValidation)
		}
	}

	items, total, err := s.bookings.FindFiltered(ctx, repository.BookingFilter{
		Query:  q.Query,
		Status: domain.BookingStatus(q.Status),
		Limit:  q.Per,
		Offset: (q.Page - 1) * q.Per,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(q.Per) - 1) / int64(q.Per))
	return &BookingListResult{Bookings: items, TotalPages: pages}, nil
}

func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	pending, err := s.bookings.CountByStatus(ctx, domain.BookingPending)
	if err != nil {
		return nil, err
	}
	props, err := s.properties.Count(ctx)
	if err != nil {
		return nil, err
	}

	newToday, err := s.bookings.CountCreatedSince(ctx, startOfToday(time.Now()))
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		PendingBookings:  pending,
		ActiveProperties: props,
		NewBookingsToday: newToday,
	}
	if s.presence != nil {
		m.AdminsOnline = s.presence.OnlineCount()
	}
	return m, nil
}

// startOfToday keeps the "new today" window in the same location gorm
// writes created_at in, instead of midnight UTC.
func startOfToday(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ImportAvailability replaces every previously imported block with the
// given set, as one transaction. Blocks whose map node matches no property
// are skipped and counted, mirroring how the external sheet has always
// carried stale nodes.
func (s *Service) ImportAvailability(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	for i, blk := range req.Blocks {
		if blk.StartDate.IsZero() || blk.EndDate.IsZero() {
			return nil, fmt.Errorf("block %d: missing dates: %w", i, ErrValidation)
		}
		if !blk.StartDate.Before(blk.EndDate) {
			return nil, fmt.Errorf("block %d: end_date must be after start_date: %w", i, ErrValidation)
		}
	}

	idx, err := s.properties.MapNodeIndex(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]domain.Booking, 0, len(req.Blocks))
	skipped := 0
	for _, blk := range req.Blocks {
		propertyID, ok := idx[blk.MapNodeID]
		if !ok {
			skipped++
			continue
		}
		blocks = append(blocks, domain.Booking{
			PropertyID:  propertyID,
			CheckIn:     blk.StartDate,
			CheckOut:    blk.EndDate,
			ClientName:  importClientName,
			ClientPhone: "N/A",
			Status:      domain.BookingConfirmed,
			Source:      domain.BookingSourceImport,
		})
	}

	if err := s.bookings.ReplaceImported(ctx, blocks); err != nil {
		if errors.Is(err, repository.ErrOverlap) || isExclusionViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &ImportResult{Imported: len(blocks), Skipped: skipped}, nil
}

// isExclusionViolation recognizes postgres rejecting an imported block via
// the bookings_no_overlap constraint.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "bookings_no_overlap"
}
