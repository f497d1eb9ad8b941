package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/services"
	"github.com/adi-nugroho/laundrylink-api/utils"
)

// UploadReceipt handles POST /api/v1/orders/:id/receipt - attaches a receipt
// photo (PNG) to an order. Uploads go to S3 when a bucket is configured,
// otherwise to local disk.
func UploadReceipt(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A receipt file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondServiceError(c, err)
		return
	}

	svc := orderService()

	// Authorize before touching storage so a forbidden caller leaves no orphan file
	if _, _, err := svc.GetOrder(orderID, user); err != nil {
		respondServiceError(c, err)
		return
	}

	var key string
	var receiptURL string
	if receiptService := services.GetReceiptService(); receiptService != nil {
		key, err = receiptService.UploadReceipt(fileHeader)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		receiptURL, _ = receiptService.GetReceiptURL(key)
	} else {
		key, err = utils.SaveUploadedFile(fileHeader, utils.UploadDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Failed to store receipt file",
				},
			})
			return
		}
		receiptURL = utils.GetImageURL(key)
	}

	order, err := svc.SetReceiptKey(orderID, user, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":    order.ID,
			"receipt_key": key,
			"receipt_url": receiptURL,
		},
	})
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves locally
// stored receipt photos
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Validate filename is not empty
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Filename is required",
			},
		})
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	// Validate file extension is PNG
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Only PNG files are supported",
			},
		})
		return
	}

	// Construct full file path
	filePath := filepath.Join(utils.UploadDir, filename)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Receipt not found",
			},
		})
		return
	}

	// Serve the file with appropriate headers
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
