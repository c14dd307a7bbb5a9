package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

// ErrOverlap is returned when confirming a booking would overlap another
// confirmed booking on the same property.
var ErrOverlap = errors.New("booking range overlaps a confirmed booking")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ConfirmedRanges returns the [check_in, check_out) spans of all confirmed
// bookings on the property. Pending and cancelled rows never block dates.
func (r *BookingRepository) ConfirmedRanges(ctx context.Context, propertyID int64) ([]domain.DateRange, error) {
	var rows []domain.Booking
	err := r.db.WithContext(ctx).
		Select("check_in", "check_out").
		Where("property_id = ? AND status = ?", propertyID, domain.BookingConfirmed).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.DateRange, 0, len(rows))
	for _, b := range rows {
		out = append(out, domain.DateRange{From: b.CheckIn, To: b.CheckOut})
	}
	return out, nil
}

// UpdateStatus sets the status unconditionally and reports how many rows
// matched, so callers can tell a missing id apart from a no-op.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	return tx.RowsAffected, tx.Error
}

// ConfirmWithGuard flips a booking to confirmed inside one transaction,
// after re-checking that no other confirmed booking on the same property
// overlaps its half-open range. On PostgreSQL the bookings_no_overlap
// exclusion constraint re-enforces the same rule at commit time.
func (r *BookingRepository) ConfirmWithGuard(ctx context.Context, id int64) (*domain.Booking, error) {
	var confirmed *domain.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, id).Error; err != nil {
			return err
		}
		if b.Status == domain.BookingConfirmed {
			confirmed = &b
			return nil
		}

		var cnt int64
		err := tx.Model(&domain.Booking{}).
			Where("property_id = ? AND id <> ? AND status = ? AND check_in < ? AND check_out > ?",
				b.PropertyID, b.ID, domain.BookingConfirmed, b.CheckOut, b.CheckIn).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}

		if err := tx.Model(&domain.Booking{}).
			Where("id = ?", b.ID).
			Update("status", domain.BookingConfirmed).Error; err != nil {
			return err
		}
		b.Status = domain.BookingConfirmed
		confirmed = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// BookingListItem is one row of the admin booking list.
type BookingListItem struct {
	domain.Booking
	PropertyName string `json:"property_name" gorm:"column:property_name"`
}

type BookingFilter struct {
	Query  string
	Status domain.BookingStatus
	Limit  int
	Offset int
	SortBy string
	Order  string
}

// sortColumns whitelists what the admin list may order by.
var sortColumns = map[string]string{
	"created_at":    "bookings.created_at",
	"client_name":   "bookings.client_name",
	"check_in":      "bookings.check_in",
	"property_name": "properties.name",
	"status":        "bookings.status",
}

func (r *BookingRepository) FindFiltered(ctx context.Context, f BookingFilter) ([]BookingListItem, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Joins("JOIN properties ON properties.id = bookings.property_id")

	if f.Status != "" {
		base = base.Where("bookings.status = ?", f.Status)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		base = base.Where(
			"bookings.client_name LIKE ? OR bookings.client_phone LIKE ? OR properties.name LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "bookings.created_at"
	}
	dir := "DESC"
	if f.Order == "asc" {
		dir = "ASC"
	}

	var items []BookingListItem
	err := base.
		Select("bookings.*, properties.name AS property_name").
		Order(col + " " + dir).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("status = ?", status).
		Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("created_at >= ?", since).
		Count(&cnt).Error
	return cnt, err
}

// ReplaceImported swaps the full set of bulk-imported blocks in one
// transaction: a failed import can never leave a partial calendar behind.
// Blocks are confirmed rows, so they run through the same overlap guard as
// a confirmation: each block is checked against the surviving confirmed
// bookings and against the other blocks of the same import.
func (r *BookingRepository) ReplaceImported(ctx context.Context, blocks []domain.Booking) error {
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].PropertyID == blocks[j].PropertyID &&
				blocks[i].Overlaps(blocks[j].CheckIn, blocks[j].CheckOut) {
				return ErrOverlap
			}
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", domain.BookingSourceImport).
			Delete(&domain.Booking{}).Error; err != nil {
			return err
		}

		for _, b := range blocks {
			var cnt int64
			err := tx.Model(&domain.Booking{}).
				Where("property_id = ? AND status = ? AND check_in < ? AND check_out > ?",
					b.PropertyID, domain.BookingConfirmed, b.CheckOut, b.CheckIn).
				Count(&cnt).Error
			if err != nil {
				return err
			}
			if cnt > 0 {
				return ErrOverlap
			}
		}

		if len(blocks) == 0 {
			return nil
		}
		return tx.Create(&blocks).Error
	})
}
