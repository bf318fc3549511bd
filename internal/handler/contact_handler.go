package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"contacts_api/internal/middleware"
	"contacts_api/internal/model"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit  = 10
	maxBirthdaysLimit = 300
)

// ContactHandler handles contact related requests
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// parsePagination reads limit/offset query params, applying the default
// limit. maxLimit <= 0 means uncapped.
func parsePagination(c *gin.Context, maxLimit int) (int, int, bool) {
	limit := defaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit, must be a non-negative integer"})
			return 0, 0, false
		}
		limit = parsed
	}
	if maxLimit > 0 && limit > maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be less than or equal to " + strconv.Itoa(maxLimit)})
		return 0, 0, false
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset, must be a non-negative integer"})
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}

func parseContactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return 0, false
	}
	return id, true
}

// GetContacts lists contacts. With any of the first_name/last_name/email
// query params set, the result is every contact matching at least one of
// them; otherwise a paginated listing.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	limit, offset, ok := parsePagination(c, 0)
	if !ok {
		return
	}

	filters := model.ContactFilters{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}

	contacts, err := h.service.GetContacts(c.Request.Context(), limit, offset, filters)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contacts with requested parameters not found"})
			return
		}
		log.Printf("Error listing contacts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// GetUpcomingBirthdays lists contacts whose birthday falls in the next 7 days
func (h *ContactHandler) GetUpcomingBirthdays(c *gin.Context) {
	limit, offset, ok := parsePagination(c, maxBirthdaysLimit)
	if !ok {
		return
	}

	contacts, err := h.service.GetUpcomingBirthdays(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found!"})
			return
		}
		log.Printf("Error listing upcoming birthdays: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) GetContactByID(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	contact, err := h.service.GetContactByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found!"})
			return
		}
		log.Printf("Error getting contact by ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.CreateContact(c.Request.Context(), req)
	if err != nil {
		log.Printf("Error creating contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found!"})
			return
		}
		log.Printf("Error updating contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	err := h.service.DeleteContact(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found!"})
			return
		}
		log.Printf("Error deleting contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterContactRoutes registers contact routes. Every route runs the auth
// middleware followed by the single role guard for its operation category.
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	contacts := rg.Group("/contacts")
	contacts.Use(authMW)
	{
		contacts.GET("", middleware.RequireOperation(middleware.OpRead), h.GetContacts)
		contacts.GET("/birthdays", middleware.RequireOperation(middleware.OpRead), h.GetUpcomingBirthdays)
		contacts.GET("/:id", middleware.RequireOperation(middleware.OpRead), h.GetContactByID)
		contacts.POST("", middleware.RequireOperation(middleware.OpCreate), h.CreateContact)
		contacts.PUT("/:id", middleware.RequireOperation(middleware.OpUpdate), h.UpdateContact)
		contacts.DELETE("/:id", middleware.RequireOperation(middleware.OpDelete), h.DeleteContact)
	}
}
