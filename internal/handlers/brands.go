package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// BrandHandler serves brand administration.
type BrandHandler struct {
	service *services.BrandService
}

type brandRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"max=512"`
	IsActive    *bool  `json:"is_active"`
}

// NewBrandHandler constructs a BrandHandler.
func NewBrandHandler(db *gorm.DB) (*BrandHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewBrandService(db, audit)
	if err != nil {
		return nil, err
	}
	return &BrandHandler{service: svc}, nil
}

// GET /api/brands
func (h *BrandHandler) List(c *gin.Context) {
	activeOnly := false
	if v := parseBoolQuery(c, "active"); v != nil {
		activeOnly = *v
	}

	brands, err := h.service.List(requestContext(c), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands)
}

// GET /api/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	brand, err := h.service.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// POST /api/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var body brandRequest
	if !bindAndValidate(c, &body) {
		return
	}

	brand, err := h.service.Create(requestContext(c), services.BrandInput{
		Name:        body.Name,
		Description: body.Description,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brand)
}

// PUT /api/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	var body brandRequest
	if !bindAndValidate(c, &body) {
		return
	}

	brand, err := h.service.Update(requestContext(c), c.Param("id"), services.BrandInput{
		Name:        body.Name,
		Description: body.Description,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// DELETE /api/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
