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

func setupPresenceServiceTest(t *testing.T) (*PresenceService, *gorm.DB, *models.Employee, *models.Shift) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	svc, err := NewPresenceService(db, audit)
	require.NoError(t, err)

	emp := createTestEmployee(t, db, "P-001")
	shift := &models.Shift{Name: "day", StartTime: "08:00", EndTime: "16:00", IsActive: true}
	require.NoError(t, db.Create(shift).Error)
	return svc, db, emp, shift
}

func TestCheckInOnTimeIsPartial(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	at := time.Date(2026, 9, 1, 7, 55, 0, 0, time.UTC)
	presence, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, at, "gate A")
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusPartial, presence.Status)
	require.Zero(t, presence.WorkHours)
}

func TestCheckInAfterShiftStartIsLate(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	at := time.Date(2026, 9, 1, 8, 10, 0, 0, time.UTC)
	presence, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, at, "")
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusLate, presence.Status)

	// Late sticks after check-out.
	out, err := svc.CheckOut(context.Background(), emp.ID, at.Add(8*time.Hour), "")
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusLate, out.Status)
}

func TestCheckOutComputesWorkAndOvertime(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	in := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, in, "")
	require.NoError(t, err)

	out, err := svc.CheckOut(context.Background(), emp.ID, in.Add(8*time.Hour+35*time.Minute), "")
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusPresent, out.Status)
	require.InDelta(t, 8.58, out.WorkHours, 0.001)
	require.InDelta(t, 0.58, out.OvertimeHours, 0.001)
}

func TestCheckOutWithoutOvertime(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	in := time.Date(2026, 9, 1, 7, 45, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, in, "")
	require.NoError(t, err)

	out, err := svc.CheckOut(context.Background(), emp.ID, in.Add(7*time.Hour), "")
	require.NoError(t, err)
	require.InDelta(t, 7.0, out.WorkHours, 0.001)
	require.Zero(t, out.OvertimeHours)
}

func TestDoubleCheckInRejected(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, at, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), emp.ID, shift.ID, at.Add(time.Minute), "")
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _, emp, _ := setupPresenceServiceTest(t)

	_, err := svc.CheckOut(context.Background(), emp.ID, time.Now(), "")
	require.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOutBeforeCheckInRejected(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	in := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, in, "")
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), emp.ID, in.Add(-time.Hour), "")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)
}

func TestCheckInInactiveEmployeeRejected(t *testing.T) {
	svc, db, _, shift := setupPresenceServiceTest(t)

	terminated := &models.Employee{Name: "Gone", Code: "P-999", Status: models.EmployeeStatusTerminated}
	require.NoError(t, db.Create(terminated).Error)

	_, err := svc.CheckIn(context.Background(), terminated.ID, shift.ID, time.Now(), "")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.FromError(err).Code)
}

func TestAmendRecomputesFromScratch(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	in := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	presence, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, in, "")
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusLate, presence.Status)

	// Correct the check-in to before shift start and add a check-out.
	fixedIn := time.Date(2026, 9, 1, 7, 55, 0, 0, time.UTC)
	fixedOut := fixedIn.Add(8 * time.Hour)
	amended, err := svc.Amend(context.Background(), presence.ID, &fixedIn, &fixedOut)
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusPresent, amended.Status)
	require.InDelta(t, 8.0, amended.WorkHours, 0.001)

	// Clearing both timestamps resets to absent.
	cleared, err := svc.Amend(context.Background(), presence.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.PresenceStatusAbsent, cleared.Status)
	require.Zero(t, cleared.WorkHours)
	require.Zero(t, cleared.OvertimeHours)
}

func TestListPresencesFilters(t *testing.T) {
	svc, db, emp, shift := setupPresenceServiceTest(t)

	in := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, in, "")
	require.NoError(t, err)
	_, err = svc.CheckOut(context.Background(), emp.ID, in.Add(8*time.Hour), "")
	require.NoError(t, err)

	other := createTestEmployee(t, db, "P-002")
	_, err = svc.CheckIn(context.Background(), other.ID, shift.ID, in.Add(30*time.Minute), "")
	require.NoError(t, err)

	records, total, err := svc.List(context.Background(), ListPresencesOptions{
		Filters: PresenceFilters{EmployeeID: emp.ID},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, models.PresenceStatusPresent, records[0].Status)

	_, total, err = svc.List(context.Background(), ListPresencesOptions{
		Filters: PresenceFilters{Status: models.PresenceStatusLate},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestDeletePresence(t *testing.T) {
	svc, _, emp, shift := setupPresenceServiceTest(t)

	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	presence, err := svc.CheckIn(context.Background(), emp.ID, shift.ID, at, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), presence.ID))

	_, err = svc.Get(context.Background(), presence.ID)
	require.ErrorIs(t, err, ErrPresenceNotFound)

	require.ErrorIs(t, svc.Delete(context.Background(), presence.ID), ErrPresenceNotFound)
}
