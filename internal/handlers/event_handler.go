package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/models"
)

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	City        string    `json:"city" binding:"required"`
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
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

	event := models.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		City:        req.City,
		Status:      models.EventStatusDraft,
		UserID:      userID.(uuid.UUID),
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	if err := gormDB.Preload("TicketTypes").Where("status = ?", models.EventStatusPublished).Order("start_time asc").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("TicketTypes").Where("id = ? AND status = ?", eventID, models.EventStatusPublished).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")
	var req EventRequest
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
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Location = req.Location
	event.City = req.City

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func PublishEvent(c *gin.Context) {
	transitionEventStatus(c, models.EventStatusPublished,
		"Only draft events can be published.",
		"Event published successfully.")
}

func CancelEvent(c *gin.Context) {
	transitionEventStatus(c, models.EventStatusCancelled,
		"Only published events can be cancelled.",
		"Event cancelled successfully.")
}

func ArchiveEvent(c *gin.Context) {
	transitionEventStatus(c, models.EventStatusArchived,
		"Only published or cancelled events can be archived.",
		"Event archived successfully.")
}

func transitionEventStatus(c *gin.Context, to models.EventStatus, conflictMessage, successMessage string) {
	eventID := c.Param("id")

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
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
		return
	}

	if !event.Status.CanTransition(to) {
		helpers.RespondWithError(c, http.StatusConflict, conflictMessage)
		return
	}

	if err := gormDB.Model(&event).Update("status", to).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": successMessage})
}

func UploadEventBanner(c *gin.Context) {
	eventID := c.Param("id")

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
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
		return
	}

	bannerFile, err := c.FormFile("banner")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Banner file is required.")
		return
	}

	bannerPath, err := helpers.UploadFile(c, bannerFile, "event_banners")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if event.BannerPath != "" {
		helpers.DeleteFile(event.BannerPath)
	}

	if err := gormDB.Model(&event).Update("banner_path", bannerPath).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save banner.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Banner uploaded successfully.", "banner_path": bannerPath})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

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
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete it.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
