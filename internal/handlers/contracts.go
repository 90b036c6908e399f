package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// ContractHandler serves employment contract templates.
type ContractHandler struct {
	service *services.ContractService
}

type contractRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"max=512"`
	Type        string `json:"type" validate:"required"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsActive    *bool  `json:"is_active"`
}

// NewContractHandler constructs a ContractHandler.
func NewContractHandler(db *gorm.DB) (*ContractHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewContractService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ContractHandler{service: svc}, nil
}

// GET /api/contracts
func (h *ContractHandler) List(c *gin.Context) {
	activeOnly := false
	if v := parseBoolQuery(c, "active"); v != nil {
		activeOnly = *v
	}

	contracts, err := h.service.List(requestContext(c), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contracts)
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.service.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// POST /api/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var body contractRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input, err := contractInputFromRequest(body)
	if err != nil {
		response.Error(c, err)
		return
	}

	contract, err := h.service.Create(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contract)
}

// PUT /api/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	var body contractRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input, err := contractInputFromRequest(body)
	if err != nil {
		response.Error(c, err)
		return
	}

	contract, err := h.service.Update(requestContext(c), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// DELETE /api/contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func contractInputFromRequest(body contractRequest) (services.ContractInput, error) {
	input := services.ContractInput{
		Name:        body.Name,
		Description: body.Description,
		Type:        body.Type,
		IsActive:    body.IsActive,
	}

	var err error
	var start, end time.Time
	if body.StartDate != "" {
		if start, err = parseDate(body.StartDate); err != nil {
			return services.ContractInput{}, err
		}
		input.StartDate = &start
	}
	if body.EndDate != "" {
		if end, err = parseDate(body.EndDate); err != nil {
			return services.ContractInput{}, err
		}
		input.EndDate = &end
	}
	return input, nil
}
