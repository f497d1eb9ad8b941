package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/models"
	"github.com/adi-nugroho/laundrylink-api/services"
)

// newTestConfig builds a configuration for exercising the full router
func newTestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:    "sqlite::memory:",
		Port:           "8080",
		GoEnv:          "test",
		JWTSecret:      "integration-test-secret",
		JWTIssuer:      "laundrylink",
		JWTAudience:    "laundrylink-api",
		TransitionMode: config.TransitionModePermissive,
	}
}

// setupMainTestDB creates an in-memory database with the full schema and
// installs it as the application database
func setupMainTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.Customer{},
		&models.Order{},
		&models.OrderStatusEvent{},
		&models.ServicePrice{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// mintToken issues an HS256 token the way the auth service would
func mintToken(t *testing.T, cfg *config.Config, subject, role string) string {
	t.Helper()

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(cfg.JWTSecret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	claims := jwt.Claims{
		Issuer:   cfg.JWTIssuer,
		Subject:  subject,
		Audience: jwt.Audience{cfg.JWTAudience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Expiry:   jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	custom := map[string]interface{}{"role": role}

	token, err := jwt.Signed(signer).Claims(claims).Claims(custom).CompactSerialize()
	require.NoError(t, err)
	return token
}

// doJSON performs a request against the router and decodes the JSON response
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w.Code, response
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(newTestConfig())

	code, response := doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, code, "Expected status 200 OK")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "LaundryLink API is running", response["message"])
}

// TestAPIV1Prefix tests that endpoints require the /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(newTestConfig())

	code, _ := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusNotFound, code, "Endpoint should require /api/v1 prefix")

	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code, "Endpoint should work with /api/v1 prefix")
}

// TestProtectedRoutesRequireToken verifies that order routes reject
// unauthenticated requests
func TestProtectedRoutesRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig()
	config.SetConfig(cfg)
	setupMainTestDB(t)
	router := setupRouter(cfg)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders/1"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/prices"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			code, response := doJSON(t, router, route.method, route.path, "", nil)

			assert.Equal(t, http.StatusUnauthorized, code)
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, "INVALID_TOKEN", errorData["code"])
		})
	}
}

// TestProtectedRoutesRejectForgedToken verifies that a token signed with the
// wrong secret is rejected by the real middleware chain
func TestProtectedRoutesRejectForgedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig()
	config.SetConfig(cfg)
	setupMainTestDB(t)
	router := setupRouter(cfg)

	forged := mintToken(t, &config.Config{
		JWTSecret:   "attacker-controlled-secret",
		JWTIssuer:   cfg.JWTIssuer,
		JWTAudience: cfg.JWTAudience,
	}, "budi-laundry", "partner")

	code, response := doJSON(t, router, http.MethodGet, "/api/v1/orders", forged, nil)

	assert.Equal(t, http.StatusUnauthorized, code)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_TOKEN", errorData["code"])
}

// TestPublicTrackingIntegration verifies the unauthenticated tracking lookup
// through the full router
func TestPublicTrackingIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig()
	config.SetConfig(cfg)
	db := setupMainTestDB(t)
	router := setupRouter(cfg)

	user := models.User{Username: "budi-laundry", Name: "Budi", Role: models.RolePartner}
	require.NoError(t, db.Create(&user).Error)
	partner := models.Partner{UserID: user.ID, ShopName: "Budi Laundry", Address: "Jl. Melati 12", Phone: "0811111111", City: "Bandung"}
	require.NoError(t, db.Create(&partner).Error)

	weight := 3.5
	order, err := services.NewOrderService(db, false).CreateOrder(partner.ID, &user, services.CreateOrderInput{
		CustomerName:  "Budi Santoso",
		CustomerPhone: "081234567890",
		ServiceType:   "Laundry Kiloan",
		WeightKg:      &weight,
		TotalPrice:    35000,
	})
	require.NoError(t, err)

	// No Authorization header: tracking must work anyway
	code, response := doJSON(t, router, http.MethodGet, "/api/v1/track/"+order.TrackingCode, "", nil)

	assert.Equal(t, http.StatusOK, code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, order.TrackingCode, data["tracking_code"])
	assert.Equal(t, "Received", data["status"])

	// Unknown codes get a 404
	code, response = doJSON(t, router, http.MethodGet, "/api/v1/track/LND20250101XXXX", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}
