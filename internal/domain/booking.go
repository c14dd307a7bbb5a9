package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

// BookingSourceImport marks rows written by the bulk availability import.
// Guest inquiries leave Source empty.
const BookingSourceImport = "import"

// Booking is a reservation request against one property. The range is
// half-open: CheckOut is the first day that is available again.
type Booking struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	PropertyID     int64         `json:"property_id" gorm:"not null;index"`
	CheckIn        Date          `json:"check_in" gorm:"not null"`
	CheckOut       Date          `json:"check_out" gorm:"not null"`
	Guests         int           `json:"guests"`
	ClientName     string        `json:"client_name" gorm:"not null"`
	ClientPhone    string        `json:"client_phone" gorm:"not null"`
	ClientEmail    string        `json:"client_email,omitempty"`
	Status         BookingStatus `json:"status" gorm:"not null;default:'pending';index"`
	Source         string        `json:"source,omitempty"`
	IdempotencyKey *string       `json:"-" gorm:"uniqueIndex"`
	CreatedAt      time.Time     `json:"created_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Booking) TableName() string { return "bookings" }

// Overlaps reports whether [checkIn, checkOut) shares at least one night
// with this booking. Touching boundaries are not an overlap.
func (b Booking) Overlaps(checkIn, checkOut Date) bool {
	return b.CheckIn.Before(checkOut) && checkIn.Before(b.CheckOut)
}

// DateRange is one unavailable [From, To) span; To is the first free day.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}
