package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
	"github.com/ardiansyah/workforce/pkg/response"
)

// ShiftHandler serves shift definitions, assignments, and conflict queries.
type ShiftHandler struct {
	service *services.ShiftService
}

type shiftRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=64"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	IsActive  *bool  `json:"is_active"`
}

type assignShiftRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Notes      string `json:"notes" validate:"max=512"`
}

// NewShiftHandler constructs a ShiftHandler.
func NewShiftHandler(db *gorm.DB) (*ShiftHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewShiftService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ShiftHandler{service: svc}, nil
}

// GET /api/shifts
func (h *ShiftHandler) List(c *gin.Context) {
	activeOnly := false
	if v := parseBoolQuery(c, "active"); v != nil {
		activeOnly = *v
	}

	shifts, err := h.service.ListShifts(requestContext(c), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, shifts)
}

// GET /api/shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.service.GetShift(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, shift)
}

// POST /api/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var body shiftRequest
	if !bindAndValidate(c, &body) {
		return
	}

	shift, err := h.service.CreateShift(requestContext(c), services.ShiftInput{
		Name:      body.Name,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		IsActive:  body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, shift)
}

// PUT /api/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	var body shiftRequest
	if !bindAndValidate(c, &body) {
		return
	}

	shift, err := h.service.UpdateShift(requestContext(c), c.Param("id"), services.ShiftInput{
		Name:      body.Name,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		IsActive:  body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, shift)
}

// DELETE /api/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteShift(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/shifts/:id/duplicate
func (h *ShiftHandler) Duplicate(c *gin.Context) {
	var body struct {
		Name string `json:"name" validate:"required,min=2,max=64"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	shift, err := h.service.DuplicateShift(requestContext(c), c.Param("id"), body.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, shift)
}

// GET /api/shifts/:id/available-employees?date=
func (h *ShiftHandler) AvailableEmployees(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	employees, err := h.service.AvailableEmployees(requestContext(c), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, employees)
}

// POST /api/shifts/:id/assign
func (h *ShiftHandler) Assign(c *gin.Context) {
	var body assignShiftRequest
	if !bindAndValidate(c, &body) {
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	assignment, err := h.service.AssignShift(requestContext(c), body.EmployeeID, c.Param("id"), date, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, assignment)
}

// POST /api/shifts/:id/unassign
func (h *ShiftHandler) Unassign(c *gin.Context) {
	var body assignShiftRequest
	if !bindAndValidate(c, &body) {
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.UnassignShift(requestContext(c), body.EmployeeID, c.Param("id"), date); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unassigned": true})
}

// GET /api/shifts/conflicts?employee_id=&date=&exclude_shift_id=
func (h *ShiftHandler) DateConflicts(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		response.Error(c, apperrors.NewBadRequest("employee_id is required"))
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	conflicts, err := h.service.DateConflicts(requestContext(c), employeeID, date, c.Query("exclude_shift_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, conflicts)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequest("date must be in YYYY-MM-DD format")
	}
	return date, nil
}
