package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/models"
)

// GenerateTicketQR renders the signed scan payload for one of the buyer's
// tickets as a PNG.
func GenerateTicketQR(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	ticketIDStr := c.Param("ticketId")
	ticketID, err := uuid.Parse(ticketIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.Where("id = ?", ticketID).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	var order models.Order
	if err := gormDB.Where("id = ?", ticket.OrderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}
	if order.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a QR code for this ticket.")
		return
	}

	if ticket.Status != models.TicketStatusValid {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket is not valid.")
		return
	}

	signer := helpers.NewTicketSigner(os.Getenv("JWT_SECRET"))
	payload := signer.Payload(ticket.Code, ticket.EventID)

	qrImage, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateTicket is the check-in endpoint for organizers scanning at the
// door. The valid -> used transition is a conditional update so two scanners
// racing on the same ticket admit it once.
func ValidateTicket(c *gin.Context) {
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

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	signer := helpers.NewTicketSigner(os.Getenv("JWT_SECRET"))
	code, eventID, err := signer.Verify(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code.")
		return
	}

	var ticket models.Ticket
	if err := gormDB.Where("code = ?", code).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}
	if ticket.EventID != eventID {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket does not belong to this event.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticket.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket.")
		return
	}

	now := time.Now().UTC()
	result := gormDB.Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticket.ID, models.TicketStatusValid).
		Updates(map[string]interface{}{
			"status":        models.TicketStatusUsed,
			"checked_in_at": now,
		})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used or void.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully.",
		"ticket": gin.H{
			"id":          ticket.ID,
			"event_title": event.Title,
			"checked_in":  now,
		},
	})
}
