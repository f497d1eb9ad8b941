package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/middleware"
	"github.com/adi-nugroho/laundrylink-api/models"
	"github.com/adi-nugroho/laundrylink-api/services"
	"github.com/adi-nugroho/laundrylink-api/utils"
)

// requireUser resolves the authenticated account from the token subject.
// On failure it writes the error response and returns false.
func requireUser(c *gin.Context) (*models.User, bool) {
	username, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User account not found. Please create an account first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// parseIDParam parses the numeric :id path parameter.
// On failure it writes the error response and returns false.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "ID must be a number",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// orderService builds the order service against the active database and
// transition-mode configuration
func orderService() *services.OrderService {
	cfg := config.GetConfig()
	strict := cfg != nil && cfg.StrictTransitions()
	return services.NewOrderService(config.GetDB(), strict)
}

// respondServiceError translates a service-layer error into the JSON envelope.
// Unknown errors become a generic 500 without leaking detail to the client.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.HTTPStatus, gin.H{
			"success": false,
			"error": gin.H{
				"code":    svcErr.Code,
				"message": svcErr.Message,
			},
		})
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	log.Printf("Unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "An unexpected error occurred",
		},
	})
}
