package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/models"
)

// GetOrder is what the client polls after returning from the hosted payment
// page: the order status plus any tickets issued so far.
func GetOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	orderIDStr := c.Param("id")
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Preload("Items").Preload("Tickets").Preload("Event").Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	if order.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this order.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             order.ID,
		"status":         order.Status,
		"subtotal_cents": order.SubtotalCents,
		"fee_cents":      order.FeeCents,
		"total_cents":    order.TotalCents,
		"currency":       order.Currency,
		"event": gin.H{
			"id":    order.Event.ID,
			"title": order.Event.Title,
		},
		"items":   order.Items,
		"tickets": order.Tickets,
	})
}

func ListMyOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var orders []models.Order
	if err := gormDB.Preload("Items").Preload("Tickets").Preload("Event").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
