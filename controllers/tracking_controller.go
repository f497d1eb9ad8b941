package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TrackOrder handles GET /api/v1/track/:code - public, unauthenticated order
// tracking by code. The response exposes the customer's name and phone and the
// partner's public contact details, but never the customer's address.
func TrackOrder(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Tracking code is required",
			},
		})
		return
	}

	order, events, err := orderService().GetOrderByTrackingCode(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	history := make([]gin.H, 0, len(events))
	for _, event := range events {
		history = append(history, gin.H{
			"status":    event.Status,
			"note":      event.Note,
			"timestamp": event.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tracking_code":     order.TrackingCode,
			"status":            order.Status,
			"service_type":      order.ServiceType,
			"weight_kg":         order.WeightKg,
			"item_count":        order.ItemCount,
			"total_price":       order.TotalPrice,
			"payment_method":    order.PaymentMethod,
			"payment_status":    order.PaymentStatus,
			"created_at":        order.CreatedAt,
			"estimated_done_at": order.EstimatedDoneAt,
			"completed_at":      order.CompletedAt,
			"customer": gin.H{
				"name":  order.Customer.Name,
				"phone": order.Customer.Phone,
			},
			"partner": gin.H{
				"shop_name": order.Partner.ShopName,
				"address":   order.Partner.Address,
				"phone":     order.Partner.Phone,
				"city":      order.Partner.City,
			},
			"history": history,
		},
	})
}
