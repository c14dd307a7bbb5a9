package admin

import (
	"context"
	"time"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

type BookingStore interface {
	FindFiltered(ctx context.Context, f repository.BookingFilter) ([]repository.BookingListItem, int64, error)
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	ReplaceImported(ctx context.Context, blocks []domain.Booking) error
}

type PropertyStore interface {
	Count(ctx context.Context) (int64, error)
	MapNodeIndex(ctx context.Context) (map[string]int64, error)
}

// PresenceCounter reports how many admin feed connections are open.
type PresenceCounter interface {
	OnlineCount() int
}
