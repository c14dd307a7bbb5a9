package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"chaletbook/internal/domain"
	"chaletbook/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ConfirmedRanges(ctx context.Context, propertyID int64) ([]domain.DateRange, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DateRange), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ConfirmWithGuard(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockPropertyFinder struct {
	mock.Mock
}

func (m *MockPropertyFinder) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyFinder) GetBySlug(ctx context.Context, slug string) (*domain.Property, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) InquiryCreated(b *domain.Booking) {
	m.Called(b)
}

func (m *MockEventPublisher) BookingStatusChanged(b *domain.Booking) {
	m.Called(b)
}

func validInquiry() CreateInquiryRequest {
	return CreateInquiryRequest{
		PropertyID:  7,
		CheckIn:     domain.NewDate(2025, time.August, 10),
		CheckOut:    domain.NewDate(2025, time.August, 14),
		Guests:      4,
		ClientName:  "Lucia Pereyra",
		ClientPhone: "+54 9 11 5555 1234",
	}
}

func TestService_CreateInquiry_Success(t *testing.T) {
	bookings := new(MockBookingRepository)
	properties := new(MockPropertyFinder)
	events := new(MockEventPublisher)

	properties.On("GetByID", mock.Anything, int64(7)).Return(&domain.Property{ID: 7, Guests: 6}, nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("InquiryCreated", mock.Anything).Return()

	service := NewService(bookings, properties, events)

	b, err := service.CreateInquiry(context.Background(), validInquiry())

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Empty(t, b.Source)
	events.AssertCalled(t, "InquiryCreated", mock.Anything)
}

func TestService_CreateInquiry_ZeroNightStay(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockPropertyFinder), nil)

	req := validInquiry()
	req.CheckOut = req.CheckIn

	_, err := service.CreateInquiry(context.Background(), req)

	assert.ErrorIs(t, err, ErrValidation)
	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "check_out", fe.Field)
}

func TestService_CreateInquiry_InvertedRange(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockPropertyFinder), nil)

	req := validInquiry()
	req.CheckIn = domain.NewDate(2025, time.August, 14)
	req.CheckOut = domain.NewDate(2025, time.August, 10)

	_, err := service.CreateInquiry(context.Background(), req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateInquiry_MissingClientFields(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockPropertyFinder), nil)

	req := validInquiry()
	req.ClientName = "   "
	_, err := service.CreateInquiry(context.Background(), req)
	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "client_name", fe.Field)

	req = validInquiry()
	req.ClientPhone = ""
	_, err = service.CreateInquiry(context.Background(), req)
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "client_phone", fe.Field)
}

func TestService_CreateInquiry_PropertyNotFound(t *testing.T) {
	bookings := new(MockBookingRepository)
	properties := new(MockPropertyFinder)
	properties.On("GetByID", mock.Anything, int64(7)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(bookings, properties, nil)

	_, err := service.CreateInquiry(context.Background(), validInquiry())

	assert.ErrorIs(t, err, ErrNotFound)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateInquiry_GuestsOverCapacity(t *testing.T) {
	properties := new(MockPropertyFinder)
	properties.On("GetByID", mock.Anything, int64(7)).Return(&domain.Property{ID: 7, Guests: 2}, nil)

	service := NewService(new(MockBookingRepository), properties, nil)

	_, err := service.CreateInquiry(context.Background(), validInquiry())

	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "guests", fe.Field)
}

func TestService_CreateInquiry_IdempotentReplay(t *testing.T) {
	bookings := new(MockBookingRepository)
	existing := &domain.Booking{ID: 42, Status: domain.BookingPending}
	bookings.On("GetByIdempotencyKey", mock.Anything, "7b1d8a3e-0b0a-4a8e-9a4e-3f2d1c0b9a87").
		Return(existing, nil)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	req := validInquiry()
	req.IdempotencyKey = "7b1d8a3e-0b0a-4a8e-9a4e-3f2d1c0b9a87"

	b, err := service.CreateInquiry(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateInquiry_BadIdempotencyKey(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockPropertyFinder), nil)

	req := validInquiry()
	req.IdempotencyKey = "not-a-uuid"

	_, err := service.CreateInquiry(context.Background(), req)

	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "idempotency_key", fe.Field)
}

func TestService_SetBookingStatus_ConfirmSuccess(t *testing.T) {
	bookings := new(MockBookingRepository)
	events := new(MockEventPublisher)

	pending := &domain.Booking{ID: 5, PropertyID: 7, Status: domain.BookingPending}
	confirmed := &domain.Booking{ID: 5, PropertyID: 7, Status: domain.BookingConfirmed}

	bookings.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)
	bookings.On("ConfirmWithGuard", mock.Anything, int64(5)).Return(confirmed, nil)
	events.On("BookingStatusChanged", confirmed).Return()

	service := NewService(bookings, new(MockPropertyFinder), events)

	b, err := service.SetBookingStatus(context.Background(), 5, "confirmed")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	events.AssertCalled(t, "BookingStatusChanged", confirmed)
}

func TestService_SetBookingStatus_ConfirmConflict(t *testing.T) {
	bookings := new(MockBookingRepository)
	pending := &domain.Booking{ID: 5, PropertyID: 7, Status: domain.BookingPending}

	bookings.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)
	bookings.On("ConfirmWithGuard", mock.Anything, int64(5)).Return(nil, repository.ErrOverlap)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	_, err := service.SetBookingStatus(context.Background(), 5, "confirmed")

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_SetBookingStatus_NotFound(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByID", mock.Anything, int64(99999)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	_, err := service.SetBookingStatus(context.Background(), 99999, "confirmed")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_SetBookingStatus_CancelledIsTerminal(t *testing.T) {
	bookings := new(MockBookingRepository)
	cancelled := &domain.Booking{ID: 5, Status: domain.BookingCancelled}
	bookings.On("GetByID", mock.Anything, int64(5)).Return(cancelled, nil)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	_, err := service.SetBookingStatus(context.Background(), 5, "pending")

	assert.ErrorIs(t, err, ErrValidation)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetBookingStatus_InvalidStatus(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockPropertyFinder), nil)

	_, err := service.SetBookingStatus(context.Background(), 5, "approved")

	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "status", fe.Field)
}

func TestService_SetBookingStatus_CancelUnconditionally(t *testing.T) {
	bookings := new(MockBookingRepository)
	events := new(MockEventPublisher)
	pending := &domain.Booking{ID: 5, Status: domain.BookingPending}

	bookings.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(5), domain.BookingCancelled).Return(int64(1), nil)
	events.On("BookingStatusChanged", mock.Anything).Return()

	service := NewService(bookings, new(MockPropertyFinder), events)

	b, err := service.SetBookingStatus(context.Background(), 5, "cancelled")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	bookings.AssertNotCalled(t, "ConfirmWithGuard", mock.Anything, mock.Anything)
}

func TestService_GetUnavailableRanges_EmptyWhenNoneConfirmed(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("ConfirmedRanges", mock.Anything, int64(7)).Return([]domain.DateRange{}, nil)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	ranges, err := service.GetUnavailableRanges(context.Background(), 7)

	assert.NoError(t, err)
	assert.NotNil(t, ranges)
	assert.Empty(t, ranges)
}

func TestService_GetUnavailableRanges_Passthrough(t *testing.T) {
	bookings := new(MockBookingRepository)
	want := []domain.DateRange{
		{From: domain.NewDate(2025, time.July, 1), To: domain.NewDate(2025, time.July, 8)},
	}
	bookings.On("ConfirmedRanges", mock.Anything, int64(7)).Return(want, nil)

	service := NewService(bookings, new(MockPropertyFinder), nil)

	ranges, err := service.GetUnavailableRanges(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, want, ranges)
}
