package availability

import "chaletbook/internal/domain"

type CreateInquiryRequest struct {
	PropertyID     int64       `json:"property_id"`
	CheckIn        domain.Date `json:"check_in"`
	CheckOut       domain.Date `json:"check_out"`
	Guests         int         `json:"guests"`
	ClientName     string      `json:"client_name"`
	ClientPhone    string      `json:"client_phone"`
	ClientEmail    string      `json:"client_email"`
	IdempotencyKey string      `json:"idempotency_key"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
