package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/database/testutil"
	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

func setupBrandServiceTest(t *testing.T) (*BrandService, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	svc, err := NewBrandService(db, audit)
	require.NoError(t, err)
	return svc, db
}

func TestBrandLifecycle(t *testing.T) {
	svc, _ := setupBrandServiceTest(t)

	brand, err := svc.Create(context.Background(), BrandInput{Name: "Line X"})
	require.NoError(t, err)
	require.True(t, brand.IsActive)

	_, err = svc.Create(context.Background(), BrandInput{Name: "Line X"})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)

	updated, err := svc.Update(context.Background(), brand.ID, BrandInput{Name: "Line Y", Description: "rework"})
	require.NoError(t, err)
	require.Equal(t, "Line Y", updated.Name)

	require.NoError(t, svc.Delete(context.Background(), brand.ID))
	_, err = svc.GetByID(context.Background(), brand.ID)
	require.ErrorIs(t, err, ErrBrandNotFound)
}

func TestDeleteBrandBlockedByEmployees(t *testing.T) {
	svc, db := setupBrandServiceTest(t)

	brand, err := svc.Create(context.Background(), BrandInput{Name: "Line X"})
	require.NoError(t, err)

	loc := &models.Location{Name: "Plant C", IsActive: true}
	require.NoError(t, db.Create(loc).Error)
	emp := &models.Employee{
		Name: "Budi", Code: "B-001", Status: models.EmployeeStatusActive,
		LocationID: loc.ID, BrandID: &brand.ID,
	}
	require.NoError(t, db.Create(emp).Error)

	require.ErrorIs(t, svc.Delete(context.Background(), brand.ID), ErrBrandHasEmployees)
}
