package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/models"
)

// CreatePartnerRequest represents the request body for registering a shop
type CreatePartnerRequest struct {
	ShopName string `json:"shop_name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	City     string `json:"city"`
}

// UpdatePartnerRequest represents the request body for updating a shop profile
type UpdatePartnerRequest struct {
	ShopName string `json:"shop_name" binding:"omitempty"`
	Address  string `json:"address" binding:"omitempty"`
	Phone    string `json:"phone" binding:"omitempty"`
	City     string `json:"city" binding:"omitempty"`
}

// CreatePartner handles POST /api/v1/partners - registers the shop profile
// for a partner account (one shop per account)
func CreatePartner(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if user.Role != models.RolePartner {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only partner accounts can register a shop",
			},
		})
		return
	}

	var req CreatePartnerRequest
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

	partner := models.Partner{
		UserID:   user.ID,
		ShopName: req.ShopName,
		Address:  req.Address,
		Phone:    req.Phone,
		City:     req.City,
	}

	db := config.GetDB()
	if err := db.Create(&partner).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PARTNER_EXISTS",
					"message": "This account already has a registered shop",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to register shop",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    partner,
	})
}

// GetMyPartner handles GET /api/v1/partners/me - gets the current user's shop profile
func GetMyPartner(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    partner,
	})
}

// UpdateMyPartner handles PUT /api/v1/partners/me - updates the shop profile
func UpdateMyPartner(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	partner, err := orderService().PartnerForUser(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req UpdatePartnerRequest
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

	updates := make(map[string]interface{})
	if req.ShopName != "" {
		updates["shop_name"] = req.ShopName
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.City != "" {
		updates["city"] = req.City
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    partner,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(partner).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update shop profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    partner,
	})
}
