package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah/workforce/internal/database/testutil"
	"github.com/ardiansyah/workforce/internal/models"
	"github.com/ardiansyah/workforce/internal/services"
)

func TestSweeperRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	contractSvc, err := services.NewContractService(db, auditSvc)
	require.NoError(t, err)

	now := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -2, 0)
	future := now.AddDate(0, 2, 0)

	expired, err := contractSvc.Create(context.Background(), services.ContractInput{
		Name: "Seasonal", Type: models.ContractTypeContract, EndDate: &past,
	})
	require.NoError(t, err)
	current, err := contractSvc.Create(context.Background(), services.ContractInput{
		Name: "Standard", Type: models.ContractTypePermanent, EndDate: &future,
	})
	require.NoError(t, err)

	// Seed an audit log older than the retention window.
	require.NoError(t, auditSvc.Log(context.Background(), services.AuditEntry{
		Action: "test.action", Result: "success",
	}))
	var stale models.AuditLog
	require.NoError(t, db.First(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", now.AddDate(0, 0, -30)).Error)

	sweeper := NewSweeper(contractSvc, auditSvc,
		WithNow(func() time.Time { return now }),
		WithAuditRetentionDays(7),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)

	require.NoError(t, sweeper.RunOnce(context.Background()))

	reloaded, err := contractSvc.GetByID(context.Background(), expired.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive)

	kept, err := contractSvc.GetByID(context.Background(), current.ID)
	require.NoError(t, err)
	require.True(t, kept.IsActive)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "test.action").Count(&auditCount).Error)
	require.Zero(t, auditCount)
}

func TestSweeperStartRegistersJobs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	contractSvc, err := services.NewContractService(db, auditSvc)
	require.NoError(t, err)

	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	sweeper := NewSweeper(contractSvc, auditSvc, WithCron(scheduler))

	require.NoError(t, sweeper.Start())
	require.Len(t, scheduler.Entries(), 2)

	<-sweeper.Stop().Done()
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	contractSvc, err := services.NewContractService(db, auditSvc)
	require.NoError(t, err)

	sweeper := NewSweeper(contractSvc, auditSvc, WithContractSchedule("not-a-spec"))
	require.Error(t, sweeper.Start())
}
