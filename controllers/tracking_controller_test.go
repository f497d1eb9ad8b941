package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/services"
)

func TestTrackOrder(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user, partner := seedTestPartner(t, db, "budi-laundry", "Budi Laundry")

	// Order with a customer address on file
	weight := 3.5
	address := "Jl. Kenanga 5"
	svc := services.NewOrderService(db, false)
	order, err := svc.CreateOrder(partner.ID, user, services.CreateOrderInput{
		CustomerName:    "Budi Santoso",
		CustomerPhone:   "081234567890",
		CustomerAddress: &address,
		ServiceType:     "Laundry Kiloan",
		WeightKg:        &weight,
		TotalPrice:      35000,
	})
	assert.NoError(t, err)
	_, err = svc.TransitionStatus(order.ID, user, "Washing", "started")
	assert.NoError(t, err)

	router := setupTestRouter()
	router.GET("/track/:code", TrackOrder)

	// Tracking is public: no auth middleware mounted
	req, _ := http.NewRequest(http.MethodGet, "/track/"+order.TrackingCode, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, order.TrackingCode, data["tracking_code"])
	assert.Equal(t, "Washing", data["status"])

	// Customer name and phone are exposed, the address never is
	customer := data["customer"].(map[string]interface{})
	assert.Equal(t, "Budi Santoso", customer["name"])
	assert.Equal(t, "081234567890", customer["phone"])
	_, hasAddress := customer["address"]
	assert.False(t, hasAddress, "customer address must not be exposed publicly")
	assert.NotContains(t, w.Body.String(), address)

	// Partner public contact details are included
	partnerData := data["partner"].(map[string]interface{})
	assert.Equal(t, "Budi Laundry", partnerData["shop_name"])
	assert.Equal(t, "Jl. Melati 12", partnerData["address"])
	assert.Equal(t, "0811111111", partnerData["phone"])

	// Full ordered history, oldest first
	history := data["history"].([]interface{})
	assert.Len(t, history, 2)
	first := history[0].(map[string]interface{})
	second := history[1].(map[string]interface{})
	assert.Equal(t, "Received", first["status"])
	assert.Equal(t, "Washing", second["status"])
	assert.Equal(t, "started", second["note"])
}

func TestTrackOrderCaseInsensitive(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user, partner := seedTestPartner(t, db, "budi-laundry", "Budi Laundry")
	order := seedTestOrder(t, db, user, partner)

	router := setupTestRouter()
	router.GET("/track/:code", TrackOrder)

	req, _ := http.NewRequest(http.MethodGet, "/track/"+strings.ToLower(order.TrackingCode), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, order.TrackingCode, data["tracking_code"])
}

func TestTrackOrderNotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/track/:code", TrackOrder)

	req, _ := http.NewRequest(http.MethodGet, "/track/LND20250101ZZZZ", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}
