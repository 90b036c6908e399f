package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("06:30")
	require.NoError(t, err)
	require.Equal(t, 390, minutes)

	_, err = ParseClock("25:00")
	require.Error(t, err)
	_, err = ParseClock("6:30pm")
	require.Error(t, err)
}

func TestShiftIntervalNormalisesOvernight(t *testing.T) {
	day := Shift{StartTime: "06:00", EndTime: "14:00"}
	start, end, err := day.Interval()
	require.NoError(t, err)
	require.Equal(t, 360, start)
	require.Equal(t, 840, end)

	night := Shift{StartTime: "22:00", EndTime: "06:00"}
	start, end, err = night.Interval()
	require.NoError(t, err)
	require.Equal(t, 1320, start)
	require.Equal(t, 1680, end)
}

func TestShiftDurationHours(t *testing.T) {
	night := Shift{StartTime: "22:00", EndTime: "06:00"}
	hours, err := night.DurationHours()
	require.NoError(t, err)
	require.Equal(t, 8.0, hours)

	half := Shift{StartTime: "08:00", EndTime: "12:30"}
	hours, err = half.DurationHours()
	require.NoError(t, err)
	require.Equal(t, 4.5, hours)
}

func TestShiftType(t *testing.T) {
	require.Equal(t, "morning", (&Shift{StartTime: "06:00"}).Type())
	require.Equal(t, "afternoon", (&Shift{StartTime: "14:00"}).Type())
	require.Equal(t, "night", (&Shift{StartTime: "22:00"}).Type())
	require.Equal(t, "night", (&Shift{StartTime: "05:59"}).Type())
}

func TestContractExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	open := EmployeeContract{}
	require.False(t, open.Expired(now))

	past := now.AddDate(0, -1, 0)
	ended := EmployeeContract{EndDate: &past}
	require.True(t, ended.Expired(now))

	future := now.AddDate(0, 1, 0)
	running := EmployeeContract{EndDate: &future}
	require.False(t, running.Expired(now))
}

func TestEmployeeIsActive(t *testing.T) {
	require.True(t, (&Employee{Status: EmployeeStatusActive}).IsActive())
	require.False(t, (&Employee{Status: EmployeeStatusResigned}).IsActive())
}
