package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
	"github.com/ardiansyah/workforce/pkg/response"
)

// PresenceHandler serves attendance recording and reporting.
type PresenceHandler struct {
	service *services.PresenceService
}

type checkInRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	ShiftID    string `json:"shift_id" validate:"required"`
	At         string `json:"at"`
	Notes      string `json:"notes" validate:"max=512"`
}

type checkOutRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	At         string `json:"at"`
	Notes      string `json:"notes" validate:"max=512"`
}

type amendPresenceRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
}

// NewPresenceHandler constructs a PresenceHandler.
func NewPresenceHandler(db *gorm.DB) (*PresenceHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewPresenceService(db, audit)
	if err != nil {
		return nil, err
	}
	return &PresenceHandler{service: svc}, nil
}

// POST /api/presences/check-in
func (h *PresenceHandler) CheckIn(c *gin.Context) {
	var body checkInRequest
	if !bindAndValidate(c, &body) {
		return
	}

	at, err := parseTimestamp(body.At)
	if err != nil {
		response.Error(c, err)
		return
	}

	presence, err := h.service.CheckIn(requestContext(c), body.EmployeeID, body.ShiftID, at, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, presence)
}

// POST /api/presences/check-out
func (h *PresenceHandler) CheckOut(c *gin.Context) {
	var body checkOutRequest
	if !bindAndValidate(c, &body) {
		return
	}

	at, err := parseTimestamp(body.At)
	if err != nil {
		response.Error(c, err)
		return
	}

	presence, err := h.service.CheckOut(requestContext(c), body.EmployeeID, at, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, presence)
}

// PUT /api/presences/:id
func (h *PresenceHandler) Amend(c *gin.Context) {
	var body amendPresenceRequest
	if !bindAndValidate(c, &body) {
		return
	}

	var checkIn, checkOut *time.Time
	if body.CheckIn != nil {
		t, err := parseTimestamp(*body.CheckIn)
		if err != nil {
			response.Error(c, err)
			return
		}
		checkIn = &t
	}
	if body.CheckOut != nil {
		t, err := parseTimestamp(*body.CheckOut)
		if err != nil {
			response.Error(c, err)
			return
		}
		checkOut = &t
	}

	presence, err := h.service.Amend(requestContext(c), c.Param("id"), checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, presence)
}

// GET /api/presences/:id
func (h *PresenceHandler) Get(c *gin.Context) {
	presence, err := h.service.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, presence)
}

// GET /api/presences
func (h *PresenceHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 20)

	filters := services.PresenceFilters{
		EmployeeID: c.Query("employee_id"),
		ShiftID:    c.Query("shift_id"),
		Status:     c.Query("status"),
	}
	if from := c.Query("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			response.Error(c, err)
			return
		}
		filters.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			response.Error(c, err)
			return
		}
		filters.To = &t
	}

	presences, total, err := h.service.List(requestContext(c), services.ListPresencesOptions{
		Page:     page,
		PageSize: per,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, presences, response.PageMeta(page, per, total))
}

// parseTimestamp accepts RFC3339; an empty value means "now".
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequest("timestamp must be RFC3339")
	}
	return t, nil
}

// DELETE /api/presences/:id
func (h *PresenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/reports/presences/daily?date=
func (h *PresenceHandler) DailyReport(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.service.DailyReport(requestContext(c), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// GET /api/reports/presences/monthly?year=&month=
func (h *PresenceHandler) MonthlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("year must be a number"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("month must be a number"))
		return
	}

	summary, err := h.service.MonthlySummary(requestContext(c), year, time.Month(month))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
