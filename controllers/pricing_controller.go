package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/models"
)

// CreatePriceRequest represents the request body for adding a price-list row
type CreatePriceRequest struct {
	ServiceType string   `json:"service_type" binding:"required"`
	UnitPrice   *float64 `json:"unit_price" binding:"required"`
}

// UpdatePriceRequest represents the request body for changing a unit price
type UpdatePriceRequest struct {
	UnitPrice *float64 `json:"unit_price" binding:"required"`
}

// ListPrices handles GET /api/v1/prices - the current partner's price list
func ListPrices(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	db := config.GetDB()
	var prices []models.ServicePrice
	if err := db.Where("partner_id = ?", partner.ID).Order("service_type ASC").Find(&prices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch price list",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prices,
	})
}

// CreatePrice handles POST /api/v1/prices - adds a price-list row for the
// current partner. The billing unit is derived from the service type.
func CreatePrice(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	unit, knownService := models.ServiceUnit(req.ServiceType)
	if !knownService {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SERVICE_TYPE",
				"message": "Unknown service type",
			},
		})
		return
	}

	if *req.UnitPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "unit_price must not be negative",
			},
		})
		return
	}

	price := models.ServicePrice{
		PartnerID:   partner.ID,
		ServiceType: req.ServiceType,
		Unit:        unit,
		UnitPrice:   *req.UnitPrice,
	}

	db := config.GetDB()
	if err := db.Create(&price).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRICE_EXISTS",
					"message": "A price for this service type already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create price",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    price,
	})
}

// UpdatePrice handles PUT /api/v1/prices/:id - changes a unit price
func UpdatePrice(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	priceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if *req.UnitPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "unit_price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()
	var price models.ServicePrice
	if err := db.Where("id = ? AND partner_id = ?", priceID, partner.ID).First(&price).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRICE_NOT_FOUND",
				"message": "Price not found",
			},
		})
		return
	}

	if err := db.Model(&price).Update("unit_price", *req.UnitPrice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update price",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    price,
	})
}

// DeletePrice handles DELETE /api/v1/prices/:id
func DeletePrice(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	priceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	db := config.GetDB()
	var price models.ServicePrice
	if err := db.Where("id = ? AND partner_id = ?", priceID, partner.ID).First(&price).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRICE_NOT_FOUND",
				"message": "Price not found",
			},
		})
		return
	}

	if err := db.Delete(&price).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete price",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Price deleted",
	})
}
