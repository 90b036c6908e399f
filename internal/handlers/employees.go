package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// EmployeeHandler serves the employee roster.
type EmployeeHandler struct {
	service *services.EmployeeService
}

type employeeRequest struct {
	Code       string  `json:"employee_code" validate:"required,min=2,max=32"`
	Name       string  `json:"name" validate:"required,min=2,max=128"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Phone      string  `json:"phone" validate:"max=32"`
	Position   string  `json:"position" validate:"max=128"`
	LocationID string  `json:"location_id" validate:"required"`
	BrandID    *string `json:"brand_id"`
	ContractID *string `json:"contract_id"`
	HireDate   string  `json:"hire_date"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes" validate:"max=1024"`
}

type updateEmployeeRequest struct {
	Code       string  `json:"employee_code" validate:"omitempty,min=2,max=32"`
	Name       string  `json:"name" validate:"omitempty,min=2,max=128"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Phone      string  `json:"phone" validate:"max=32"`
	Position   string  `json:"position" validate:"max=128"`
	LocationID string  `json:"location_id"`
	BrandID    *string `json:"brand_id"`
	ContractID *string `json:"contract_id"`
	HireDate   string  `json:"hire_date"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes" validate:"max=1024"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NewEmployeeHandler constructs an EmployeeHandler.
func NewEmployeeHandler(db *gorm.DB) (*EmployeeHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewEmployeeService(db, audit)
	if err != nil {
		return nil, err
	}
	return &EmployeeHandler{service: svc}, nil
}

// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 20)

	employees, total, err := h.service.List(requestContext(c), services.ListEmployeesOptions{
		Page:     page,
		PageSize: per,
		Filters: services.EmployeeFilters{
			Status:     c.Query("status"),
			LocationID: c.Query("location_id"),
			BrandID:    c.Query("brand_id"),
			Query:      c.Query("q"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, employees, response.PageMeta(page, per, total))
}

// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.service.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, employee)
}

// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var body employeeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input, err := employeeInputFromRequest(body.Code, body.Name, body.Email, body.Phone, body.Position,
		body.LocationID, body.BrandID, body.ContractID, body.HireDate, body.Status, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	employee, err := h.service.Create(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, employee)
}

// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var body updateEmployeeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input, err := employeeInputFromRequest(body.Code, body.Name, body.Email, body.Phone, body.Position,
		body.LocationID, body.BrandID, body.ContractID, body.HireDate, body.Status, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	employee, err := h.service.Update(requestContext(c), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, employee)
}

// PUT /api/employees/:id/status
func (h *EmployeeHandler) SetStatus(c *gin.Context) {
	var body setStatusRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.service.SetStatus(requestContext(c), c.Param("id"), body.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func employeeInputFromRequest(code, name, email, phone, position, locationID string,
	brandID, contractID *string, hireDate, status, notes string) (services.EmployeeInput, error) {
	input := services.EmployeeInput{
		Code:       code,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Position:   position,
		LocationID: locationID,
		BrandID:    brandID,
		ContractID: contractID,
		Status:     status,
		Notes:      notes,
	}
	if hireDate != "" {
		parsed, err := parseDate(hireDate)
		if err != nil {
			return services.EmployeeInput{}, err
		}
		input.HireDate = &parsed
	}
	return input, nil
}
