package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/database/testutil"
	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

func setupEmployeeServiceTest(t *testing.T) (*EmployeeService, *gorm.DB, *models.Location) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	svc, err := NewEmployeeService(db, audit)
	require.NoError(t, err)

	loc := &models.Location{Name: "Plant A", City: "Bandung", IsActive: true}
	require.NoError(t, db.Create(loc).Error)
	return svc, db, loc
}

func TestCreateEmployee(t *testing.T) {
	svc, _, loc := setupEmployeeServiceTest(t)

	hired := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	emp, err := svc.Create(context.Background(), EmployeeInput{
		Code:       "EMP-001",
		Name:       "Budi",
		Email:      "Budi@Example.com",
		LocationID: loc.ID,
		HireDate:   &hired,
	})
	require.NoError(t, err)
	require.Equal(t, "EMP-001", emp.Code)
	require.Equal(t, "budi@example.com", emp.Email)
	require.Equal(t, models.EmployeeStatusActive, emp.Status)
	require.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), emp.HireDate)
	require.NotNil(t, emp.Location)
}

func TestCreateEmployeeDuplicateCode(t *testing.T) {
	svc, _, loc := setupEmployeeServiceTest(t)

	_, err := svc.Create(context.Background(), EmployeeInput{Code: "EMP-001", Name: "Budi", LocationID: loc.ID})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), EmployeeInput{Code: "EMP-001", Name: "Cici", LocationID: loc.ID})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)
}

func TestCreateEmployeeUnknownLocation(t *testing.T) {
	svc, _, _ := setupEmployeeServiceTest(t)

	_, err := svc.Create(context.Background(), EmployeeInput{Code: "EMP-002", Name: "Budi", LocationID: "missing"})
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestCreateEmployeeInvalidStatus(t *testing.T) {
	svc, _, loc := setupEmployeeServiceTest(t)

	_, err := svc.Create(context.Background(), EmployeeInput{
		Code: "EMP-003", Name: "Budi", LocationID: loc.ID, Status: "vacation",
	})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)
}

func TestUpdateEmployeeStatusAndBrand(t *testing.T) {
	svc, db, loc := setupEmployeeServiceTest(t)

	brand := &models.Brand{Name: "Line X", IsActive: true}
	require.NoError(t, db.Create(brand).Error)

	emp, err := svc.Create(context.Background(), EmployeeInput{Code: "EMP-004", Name: "Budi", LocationID: loc.ID})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), emp.ID, EmployeeInput{
		BrandID: &brand.ID,
		Status:  models.EmployeeStatusInactive,
	})
	require.NoError(t, err)
	require.Equal(t, models.EmployeeStatusInactive, updated.Status)
	require.NotNil(t, updated.BrandID)
	require.Equal(t, brand.ID, *updated.BrandID)
}

func TestSetStatusUnknownEmployee(t *testing.T) {
	svc, _, _ := setupEmployeeServiceTest(t)
	require.ErrorIs(t, svc.SetStatus(context.Background(), "missing", models.EmployeeStatusResigned), ErrEmployeeNotFound)
}

func TestDeleteEmployeeRemovesAssignments(t *testing.T) {
	svc, db, loc := setupEmployeeServiceTest(t)

	emp, err := svc.Create(context.Background(), EmployeeInput{Code: "EMP-005", Name: "Budi", LocationID: loc.ID})
	require.NoError(t, err)

	shift := &models.Shift{Name: "day", StartTime: "08:00", EndTime: "16:00", IsActive: true}
	require.NoError(t, db.Create(shift).Error)
	require.NoError(t, db.Create(&models.EmployeeShift{
		EmployeeID: emp.ID, ShiftID: shift.ID, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	require.NoError(t, svc.Delete(context.Background(), emp.ID))

	var assignments int64
	require.NoError(t, db.Model(&models.EmployeeShift{}).Where("employee_id = ?", emp.ID).Count(&assignments).Error)
	require.Zero(t, assignments)
}

func TestListEmployeesByStatusAndQuery(t *testing.T) {
	svc, _, loc := setupEmployeeServiceTest(t)

	_, err := svc.Create(context.Background(), EmployeeInput{Code: "EMP-010", Name: "Budi", LocationID: loc.ID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), EmployeeInput{
		Code: "EMP-011", Name: "Cici", LocationID: loc.ID, Status: models.EmployeeStatusResigned,
	})
	require.NoError(t, err)

	_, total, err := svc.List(context.Background(), ListEmployeesOptions{
		Filters: EmployeeFilters{Status: models.EmployeeStatusActive},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	employees, total, err := svc.List(context.Background(), ListEmployeesOptions{
		Filters: EmployeeFilters{Query: "cic"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Cici", employees[0].Name)
}
