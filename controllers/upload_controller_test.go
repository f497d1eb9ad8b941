package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/models"
	"github.com/adi-nugroho/laundrylink-api/services"
	"github.com/adi-nugroho/laundrylink-api/utils"
)

// receiptForm builds a multipart body carrying one receipt file
func receiptForm(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("receipt", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadReceiptHTTP(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	mockS3 := services.NewMockS3Service()
	services.InitReceiptService(mockS3)
	defer services.SetReceiptService(nil)

	user, partner := seedTestPartner(t, db, "budi-laundry", "Budi Laundry")
	order := seedTestOrder(t, db, user, partner)

	router := setupTestRouter()
	router.POST("/orders/:id/receipt", mockAuthMiddleware(user.Username, "partner"), UploadReceipt)

	body, contentType := receiptForm(t, "receipt.png", []byte("fake png content"))
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/receipt", order.ID), body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})

	key := data["receipt_key"].(string)
	assert.Equal(t, "receipts/mock_receipt.png", key)
	assert.Contains(t, data["receipt_url"].(string), key)
	assert.True(t, mockS3.FileExists(key), "file should be stored in the receipt backend")

	// The key is persisted on the order
	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.NotNil(t, stored.ReceiptKey)
	assert.Equal(t, key, *stored.ReceiptKey)
}

func TestUploadReceiptValidation(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	mockS3 := services.NewMockS3Service()
	services.InitReceiptService(mockS3)
	defer services.SetReceiptService(nil)

	user, partner := seedTestPartner(t, db, "budi-laundry", "Budi Laundry")
	order := seedTestOrder(t, db, user, partner)

	router := setupTestRouter()
	router.POST("/orders/:id/receipt", mockAuthMiddleware(user.Username, "partner"), UploadReceipt)

	// Wrong format is rejected before anything is stored
	body, contentType := receiptForm(t, "receipt.jpg", []byte("fake jpg content"))
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/receipt", order.ID), body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])
	assert.False(t, mockS3.FileExists("receipts/mock_receipt.jpg"))

	// Missing file field
	req, _ = http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/receipt", order.ID), bytes.NewBuffer(nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData = response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errorData["code"])

	// Unknown order
	body, contentType = receiptForm(t, "receipt.png", []byte("fake png content"))
	req, _ = http.NewRequest(http.MethodPost, "/orders/9999/receipt", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadReceiptForbidden(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	mockS3 := services.NewMockS3Service()
	services.InitReceiptService(mockS3)
	defer services.SetReceiptService(nil)

	user, partner := seedTestPartner(t, db, "budi-laundry", "Budi Laundry")
	otherUser, _ := seedTestPartner(t, db, "sari-laundry", "Sari Laundry")
	order := seedTestOrder(t, db, user, partner)

	router := setupTestRouter()
	router.POST("/orders/:id/receipt", mockAuthMiddleware(otherUser.Username, "partner"), UploadReceipt)

	body, contentType := receiptForm(t, "receipt.png", []byte("fake png content"))
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/receipt", order.ID), body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, mockS3.FileExists("receipts/mock_receipt.png"),
		"a forbidden upload must not leave a file behind")
}

func TestGetUploadedImage(t *testing.T) {
	originalDir := utils.UploadDir
	utils.UploadDir = t.TempDir()
	defer func() { utils.UploadDir = originalDir }()

	content := []byte("fake png content")
	require.NoError(t, os.WriteFile(filepath.Join(utils.UploadDir, "receipt.png"), content, 0644))

	router := setupTestRouter()
	router.GET("/uploads/:filename", GetUploadedImage)

	tests := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "serves existing PNG",
			filename:       "receipt.png",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects directory traversal",
			filename:       "..receipt.png",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_FILENAME",
		},
		{
			name:           "rejects non-PNG files",
			filename:       "receipt.jpg",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_FILE_TYPE",
		},
		{
			name:           "missing file returns 404",
			filename:       "nonexistent.png",
			expectedStatus: http.StatusNotFound,
			expectedError:  "FILE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/uploads/"+tt.filename, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
				assert.Equal(t, content, w.Body.Bytes())
			}
		})
	}
}
