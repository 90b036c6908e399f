package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// LocationHandler serves location administration.
type LocationHandler struct {
	service *services.LocationService
}

type locationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=128"`
	Address  string `json:"address" validate:"max=256"`
	City     string `json:"city" validate:"max=128"`
	IsActive *bool  `json:"is_active"`
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(db *gorm.DB) (*LocationHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewLocationService(db, audit)
	if err != nil {
		return nil, err
	}
	return &LocationHandler{service: svc}, nil
}

// GET /api/locations
func (h *LocationHandler) List(c *gin.Context) {
	activeOnly := false
	if v := parseBoolQuery(c, "active"); v != nil {
		activeOnly = *v
	}

	locations, err := h.service.List(requestContext(c), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, locations)
}

// GET /api/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	location, err := h.service.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, location)
}

// POST /api/locations
func (h *LocationHandler) Create(c *gin.Context) {
	var body locationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	location, err := h.service.Create(requestContext(c), services.LocationInput{
		Name:     body.Name,
		Address:  body.Address,
		City:     body.City,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, location)
}

// PUT /api/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	var body locationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	location, err := h.service.Update(requestContext(c), c.Param("id"), services.LocationInput{
		Name:     body.Name,
		Address:  body.Address,
		City:     body.City,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, location)
}

// DELETE /api/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
