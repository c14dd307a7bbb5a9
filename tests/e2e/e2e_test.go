package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chaletbook/internal/database"
	"chaletbook/internal/domain"
	"chaletbook/internal/middleware"
	"chaletbook/internal/modules/admin"
	"chaletbook/internal/modules/auth"
	"chaletbook/internal/modules/availability"
	"chaletbook/internal/modules/catalog"
	jwtsvc "chaletbook/internal/pkg/jwt"
	"chaletbook/internal/repository"
)

type TestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *TestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	amenityRepo := repository.NewAmenityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo, amenityRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(bookingRepo, propertyRepo, nil)
	availabilityHandler := availability.NewHandler(availabilityService, propertyRepo)

	adminService := admin.NewService(bookingRepo, propertyRepo, nil)
	adminHandler := admin.NewHandler(adminService)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/admin")
		protected.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterAdminRoutes(protected)
			availabilityHandler.RegisterAdminRoutes(protected)
			adminHandler.RegisterRoutes(protected)
		}
	}

	return &TestSuite{router: router, db: db, jwtService: jwtService}
}

func (s *TestSuite) createAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	u := &domain.User{
		Email:        "admin@test.local",
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, s.db.Create(u).Error)

	token, err := s.jwtService.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func (s *TestSuite) createProperty(t *testing.T, slug string, guests int) *domain.Property {
	t.Helper()
	p := &domain.Property{Name: "E2E " + slug, Slug: slug, Guests: guests}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

func (s *TestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	}
	return w, &resp
}

func (s *TestSuite) createInquiry(t *testing.T, propertyID int64, checkIn, checkOut string) (int, *TestResponse) {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/inquiries", "", map[string]interface{}{
		"property_id":  propertyID,
		"check_in":     checkIn,
		"check_out":    checkOut,
		"guests":       2,
		"client_name":  "E2E Guest",
		"client_phone": "+49 170 0000000",
	})
	return w.Code, resp
}

func bookingID(t *testing.T, resp *TestResponse) int64 {
	t.Helper()
	booking, ok := resp.Data["booking"].(map[string]interface{})
	require.True(t, ok, "response has no booking: %+v", resp)
	id, ok := booking["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestInquiryConfirmConflictFlow(t *testing.T) {
	s := setupTestSuite(t)
	token := s.createAdmin(t)
	prop := s.createProperty(t, "conflict-chalet", 6)

	// two inquiries for overlapping dates may coexist while pending
	code, first := s.createInquiry(t, prop.ID, "2025-07-10", "2025-07-15")
	require.Equal(t, http.StatusCreated, code)
	code, second := s.createInquiry(t, prop.ID, "2025-07-12", "2025-07-14")
	require.Equal(t, http.StatusCreated, code)

	firstID := bookingID(t, first)
	secondID := bookingID(t, second)

	// first confirmation wins
	w, _ := s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", firstID), token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	// second confirmation hits the guard
	w, resp := s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", secondID), token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// the losing inquiry can still be cancelled
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", secondID), token,
		map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdjacentStaysBothConfirm(t *testing.T) {
	s := setupTestSuite(t)
	token := s.createAdmin(t)
	prop := s.createProperty(t, "adjacent-chalet", 6)

	code, first := s.createInquiry(t, prop.ID, "2025-07-10", "2025-07-15")
	require.Equal(t, http.StatusCreated, code)
	code, second := s.createInquiry(t, prop.ID, "2025-07-15", "2025-07-18")
	require.Equal(t, http.StatusCreated, code)

	w, _ := s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", bookingID(t, first)), token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", bookingID(t, second)), token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidInquiryRanges(t *testing.T) {
	s := setupTestSuite(t)
	prop := s.createProperty(t, "validation-chalet", 6)

	// zero-night stay
	code, resp := s.createInquiry(t, prop.ID, "2025-07-10", "2025-07-10")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	// inverted range
	code, resp = s.createInquiry(t, prop.ID, "2025-07-15", "2025-07-10")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)

	// unknown property
	code, resp = s.createInquiry(t, 9999, "2025-07-10", "2025-07-12")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, resp.Error)
}

func TestUnknownBookingStatusUpdate(t *testing.T) {
	s := setupTestSuite(t)
	token := s.createAdmin(t)

	w, resp := s.request(t, http.MethodPatch, "/api/v1/admin/bookings/9999/status", token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
}

func TestUnavailableRangesIgnorePending(t *testing.T) {
	s := setupTestSuite(t)
	token := s.createAdmin(t)
	prop := s.createProperty(t, "calendar-chalet", 6)

	code, pending := s.createInquiry(t, prop.ID, "2025-07-10", "2025-07-15")
	require.Equal(t, http.StatusCreated, code)

	// pending inquiries keep the calendar open
	w, resp := s.request(t, http.MethodGet, "/api/v1/properties/calendar-chalet/unavailable", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data["ranges"])

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", bookingID(t, pending)), token,
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.request(t, http.MethodGet, "/api/v1/properties/calendar-chalet/unavailable", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ranges, ok := resp.Data["ranges"].([]interface{})
	require.True(t, ok)
	require.Len(t, ranges, 1)
	span := ranges[0].(map[string]interface{})
	assert.Equal(t, "2025-07-10", span["from"])
	assert.Equal(t, "2025-07-15", span["to"])
}

func TestIdempotentInquiryReplay(t *testing.T) {
	s := setupTestSuite(t)
	prop := s.createProperty(t, "idem-chalet", 6)

	payload := map[string]interface{}{
		"property_id":     prop.ID,
		"check_in":        "2025-07-10",
		"check_out":       "2025-07-12",
		"guests":          2,
		"client_name":     "E2E Guest",
		"client_phone":    "+49 170 0000000",
		"idempotency_key": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	}

	w, first := s.request(t, http.MethodPost, "/api/v1/inquiries", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w, second := s.request(t, http.MethodPost, "/api/v1/inquiries", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, bookingID(t, first), bookingID(t, second))

	var count int64
	s.db.Model(&domain.Booking{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestImportCannotBlockConfirmedStay(t *testing.T) {
	s := setupTestSuite(t)
	token := s.createAdmin(t)

	node := "node-import"
	prop := &domain.Property{Name: "Import Chalet", Slug: "import-chalet", Guests: 6, MapNodeID: &node}
	require.NoError(t, s.db.Create(prop).Error)

	code, inquiry := s.createInquiry(t, prop.ID, "2025-07-10", "2025-07-15")
	require.Equal(t, http.StatusCreated, code)
	w, _ := s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/bookings/%d/status", bookingID(t, inquiry)), token,
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	// a block over the confirmed stay is rejected whole
	w, resp := s.request(t, http.MethodPost, "/api/v1/admin/availability/import", token, map[string]interface{}{
		"blocks": []map[string]string{
			{"map_node_id": node, "start_date": "2025-07-12", "end_date": "2025-07-20"},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "IMPORT_CONFLICT", resp.Error.Code)

	var confirmed int64
	require.NoError(t, s.db.Model(&domain.Booking{}).
		Where("status = ?", domain.BookingConfirmed).Count(&confirmed).Error)
	assert.Equal(t, int64(1), confirmed)

	// back-to-back with the stay is fine
	w, _ = s.request(t, http.MethodPost, "/api/v1/admin/availability/import", token, map[string]interface{}{
		"blocks": []map[string]string{
			{"map_node_id": node, "start_date": "2025-07-15", "end_date": "2025-07-20"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodPatch, "/api/v1/admin/bookings/1/status", "",
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)
}

func TestLoginFlow(t *testing.T) {
	s := setupTestSuite(t)
	s.createAdmin(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@test.local",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := resp.Data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	w, resp = s.request(t, http.MethodGet, "/api/v1/admin/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user, ok := resp.Data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "admin@test.local", user["email"])

	w, _ = s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@test.local",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
