package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/models"
	"github.com/adi-nugroho/laundrylink-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerName    string     `json:"customer_name" binding:"required"`
	CustomerPhone   string     `json:"customer_phone" binding:"required"`
	CustomerAddress *string    `json:"customer_address"`
	ServiceType     string     `json:"service_type" binding:"required"`
	WeightKg        *float64   `json:"weight_kg"`
	ItemCount       *int       `json:"item_count"`
	TotalPrice      *float64   `json:"total_price" binding:"required"`
	PaymentMethod   *string    `json:"payment_method"`
	PaymentStatus   string     `json:"payment_status"`
	EstimatedDoneAt *time.Time `json:"estimated_done_at"`
	PartnerID       *uint      `json:"partner_id"` // admin only: the shop to create the order for
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdatePaymentRequest represents the request body for a payment update
type UpdatePaymentRequest struct {
	PaymentMethod *string `json:"payment_method"`
	PaymentStatus *string `json:"payment_status"`
}

// CreateOrder handles POST /api/v1/orders - registers a new laundry job
func CreateOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	svc := orderService()

	// Partners create orders for their own shop; admins must name the shop
	var partnerID uint
	if user.IsAdmin() {
		if req.PartnerID == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "partner_id is required when creating an order as admin",
				},
			})
			return
		}
		partnerID = *req.PartnerID
	} else {
		partner, err := svc.PartnerForUser(user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		partnerID = partner.ID
	}

	order, err := svc.CreateOrder(partnerID, user, services.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ServiceType:     req.ServiceType,
		WeightKg:        req.WeightKg,
		ItemCount:       req.ItemCount,
		TotalPrice:      *req.TotalPrice,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		EstimatedDoneAt: req.EstimatedDoneAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists the orders visible to the actor
func ListOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orders, err := orderService().ListOrders(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - full order detail with history
func GetOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, history, err := orderService().GetOrder(orderID, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	attachReceiptURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":   order,
			"history": history,
		},
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - transitions an order
func UpdateOrderStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
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

	order, err := orderService().TransitionStatus(orderID, user, req.Status, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderPayment handles PUT /api/v1/orders/:id/payment
func UpdateOrderPayment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
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

	order, err := orderService().UpdatePayment(orderID, user, services.UpdatePaymentInput{
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an order and its history
func DeleteOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := orderService().DeleteOrder(orderID, user); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// attachReceiptURL fills the computed receipt URL field when the order has a
// stored receipt photo and a receipt backend is configured
func attachReceiptURL(order *models.Order) {
	if order.ReceiptKey == nil || *order.ReceiptKey == "" {
		return
	}

	if receiptService := services.GetReceiptService(); receiptService != nil {
		if url, err := receiptService.GetReceiptURL(*order.ReceiptKey); err == nil && url != "" {
			order.ReceiptURL = &url
		}
	}
}
