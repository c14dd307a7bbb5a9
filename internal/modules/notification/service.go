package notification

import (
	"time"

	"chaletbook/internal/domain"
)

const (
	EventInquiryCreated      = "inquiry_created"
	EventBookingStatusChange = "booking_status_changed"
)

type Event struct {
	Type       string               `json:"type"`
	BookingID  int64                `json:"booking_id"`
	PropertyID int64                `json:"property_id"`
	ClientName string               `json:"client_name"`
	CheckIn    domain.Date          `json:"check_in"`
	CheckOut   domain.Date          `json:"check_out"`
	Status     domain.BookingStatus `json:"status"`
	At         time.Time            `json:"at"`
}

// Service turns booking lifecycle changes into events on the admin feed.
// It satisfies the publisher hook of the availability module.
type Service struct {
	hub *Hub
}

func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

func (s *Service) InquiryCreated(b *domain.Booking) {
	s.hub.Broadcast(eventFrom(EventInquiryCreated, b))
}

func (s *Service) BookingStatusChanged(b *domain.Booking) {
	s.hub.Broadcast(eventFrom(EventBookingStatusChange, b))
}

func eventFrom(typ string, b *domain.Booking) Event {
	return Event{
		Type:       typ,
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		ClientName: b.ClientName,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Status:     b.Status,
		At:         time.Now().UTC(),
	}
}
