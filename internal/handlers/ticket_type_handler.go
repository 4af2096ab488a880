package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/models"
)

type TicketTypeRequest struct {
	Name       string    `json:"name" binding:"required"`
	PriceCents int64     `json:"price_cents" binding:"required,min=0"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	EventID    uuid.UUID `json:"event_id" binding:"required"`
}

type UpdateTicketTypeRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,min=0"`
}

type AddQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func CreateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", req.EventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error verifying event ownership.")
		return
	}

	ticketType := models.TicketType{
		ID:         uuid.New(),
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
		Available:  req.Quantity,
		EventID:    req.EventID,
	}

	if err := gormDB.Create(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket type.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Ticket type created successfully.",
		"ticket_type_id": ticketType.ID,
	})
}

func GetTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket type.")
		return
	}

	c.JSON(http.StatusOK, ticketType)
}

// UpdateTicketType only touches name and price. Quantity and availability are
// off limits: orders snapshot their unit price, and availability belongs to
// the issuance pipeline.
func UpdateTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")
	var req UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticketType.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this ticket type.")
		return
	}

	ticketType.Name = req.Name
	ticketType.PriceCents = req.PriceCents

	if err := gormDB.Save(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Ticket type updated successfully.",
		"ticket_type": ticketType,
	})
}

// AddTicketTypeQuantity raises quantity and availability together, the only
// organizer-side inventory mutation allowed.
func AddTicketTypeQuantity(c *gin.Context) {
	ticketTypeID := c.Param("id")
	var req AddQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticketType.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this ticket type.")
		return
	}

	result := gormDB.Model(&models.TicketType{}).
		Where("id = ?", ticketType.ID).
		Updates(map[string]interface{}{
			"quantity":  gorm.Expr("quantity + ?", req.Quantity),
			"available": gorm.Expr("available + ?", req.Quantity),
		})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add quantity.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantity added successfully."})
}

func DeleteTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticketType.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this ticket type.")
		return
	}

	var soldCount int64
	if err := gormDB.Model(&models.Ticket{}).Where("ticket_type_id = ?", ticketType.ID).Count(&soldCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking issued tickets.")
		return
	}
	if soldCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Ticket type has issued tickets and cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket type deleted successfully."})
}
