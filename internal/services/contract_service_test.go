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

func setupContractServiceTest(t *testing.T) (*ContractService, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	svc, err := NewContractService(db, audit)
	require.NoError(t, err)
	return svc, db
}

func TestCreateContractValidatesType(t *testing.T) {
	svc, _ := setupContractServiceTest(t)

	_, err := svc.Create(context.Background(), ContractInput{Name: "Standard", Type: "casual"})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)

	contract, err := svc.Create(context.Background(), ContractInput{Name: "Standard", Type: models.ContractTypePermanent})
	require.NoError(t, err)
	require.True(t, contract.IsActive)
}

func TestCreateContractDateOrder(t *testing.T) {
	svc, _ := setupContractServiceTest(t)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.Create(context.Background(), ContractInput{
		Name: "Backwards", Type: models.ContractTypeContract, StartDate: &start, EndDate: &end,
	})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)
}

func TestDeleteContractBlockedByEmployees(t *testing.T) {
	svc, db := setupContractServiceTest(t)

	contract, err := svc.Create(context.Background(), ContractInput{Name: "Standard", Type: models.ContractTypePermanent})
	require.NoError(t, err)

	loc := &models.Location{Name: "Plant B", IsActive: true}
	require.NoError(t, db.Create(loc).Error)
	emp := &models.Employee{
		Name: "Budi", Code: "C-001", Status: models.EmployeeStatusActive,
		LocationID: loc.ID, ContractID: &contract.ID,
	}
	require.NoError(t, db.Create(emp).Error)

	require.ErrorIs(t, svc.Delete(context.Background(), contract.ID), ErrContractHasEmployees)

	require.NoError(t, db.Model(emp).Update("contract_id", nil).Error)
	require.NoError(t, svc.Delete(context.Background(), contract.ID))

	_, err = svc.GetByID(context.Background(), contract.ID)
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestDeactivateExpiredContracts(t *testing.T) {
	svc, _ := setupContractServiceTest(t)

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	expired, err := svc.Create(context.Background(), ContractInput{
		Name: "Expired", Type: models.ContractTypeContract, EndDate: &past,
	})
	require.NoError(t, err)
	current, err := svc.Create(context.Background(), ContractInput{
		Name: "Current", Type: models.ContractTypeContract, EndDate: &future,
	})
	require.NoError(t, err)
	openEnded, err := svc.Create(context.Background(), ContractInput{
		Name: "Open", Type: models.ContractTypePermanent,
	})
	require.NoError(t, err)

	count, err := svc.DeactivateExpired(context.Background(), now)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	reloaded, err := svc.GetByID(context.Background(), expired.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive)

	for _, id := range []string{current.ID, openEnded.ID} {
		c, err := svc.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.True(t, c.IsActive)
	}

	// Second sweep is a no-op.
	count, err = svc.DeactivateExpired(context.Background(), now)
	require.NoError(t, err)
	require.Zero(t, count)
}
