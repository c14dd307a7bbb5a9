package admin

import (
	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

type ListBookingsQuery struct {
	Query  string
	Status string
	Page   int
	Per    int
	SortBy string
	Order  string
}

type BookingListResult struct {
	Bookings   []repository.BookingListItem `json:"bookings"`
	TotalPages int                          `json:"total_pages"`
}

type Metrics struct {
	PendingBookings  int64 `json:"pending_bookings"`
	ActiveProperties int64 `json:"active_properties"`
	NewBookingsToday int64 `json:"new_bookings_today"`
	AdminsOnline     int   `json:"admins_online"`
}

// ImportBlock is one blocked span keyed by the property's map node, the
// identifier the external availability sheet uses.
type ImportBlock struct {
	MapNodeID string      `json:"map_node_id"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
}

type ImportRequest struct {
	Blocks []ImportBlock `json:"blocks"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
