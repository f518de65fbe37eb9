package schedule

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/habit"
)

func completedLog(localDay civil.Date, quantity *float64) habit.TaskLog {
	return habit.TaskLog{
		Status:     habit.StatusCompleted,
		OccurredAt: localDay.In(time.UTC).Add(12 * time.Hour),
		TZ:         "UTC",
		Quantity:   quantity,
		Source:     habit.SourceManual,
	}
}

func newReconciler() *Reconciler {
	return NewReconciler(NewProgressTracker(fixedClock()))
}

func TestReconcileScenarioWeeklyHabit(t *testing.T) {
	h := habit.HabitTask{ID: 1, StartDate: date(2024, 1, 1), FrequencyOfTask: "7"}

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 1, 1), nil))
	require.NoError(t, err)

	got := m.Apply(h)
	assert.Equal(t, date(2024, 1, 1), *got.LastExecutionDate)
	assert.Equal(t, date(2024, 1, 8), *got.NextExecutionDate)
	assert.Nil(t, m.CurrentProgress)
	assert.False(t, m.Achieves())
}

func TestReconcileScenarioReachesTarget(t *testing.T) {
	h := targetHabit(100, 95)

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 6, 1), ptr(10.0)))
	require.NoError(t, err)

	got := m.Apply(h)
	assert.Equal(t, 105.0, got.CurrentProgress)
	assert.True(t, got.TargetAchieved)
	assert.Equal(t, fixedNow, *got.TargetAchievedAt)
	assert.True(t, m.Achieves())
}

func TestReconcileScenarioAlreadyAchieved(t *testing.T) {
	h := targetHabit(100, 105)
	h.TargetAchieved = true
	h.TargetAchievedAt = ptr(fixedNow)

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 6, 2), ptr(5.0)))
	require.NoError(t, err)

	got := m.Apply(h)
	assert.Equal(t, 105.0, got.CurrentProgress)
	assert.Nil(t, m.CurrentProgress)
	assert.False(t, m.Achieves())
	// due dates still advance
	assert.Equal(t, date(2024, 6, 3), *got.NextExecutionDate)
}

func TestReconcileScenarioSkipped(t *testing.T) {
	last := date(2024, 5, 30)
	next := date(2024, 5, 31)
	h := targetHabit(100, 50)
	h.LastExecutionDate = &last
	h.NextExecutionDate = &next

	for _, status := range []habit.LogStatus{habit.StatusSkipped, habit.StatusFailed} {
		l := completedLog(date(2024, 6, 1), ptr(30.0))
		l.Status = status

		m, err := newReconciler().Reconcile(h, l)
		require.NoError(t, err)
		assert.True(t, m.IsEmpty())
		assert.Equal(t, h, m.Apply(h))
	}
}

func TestReconcileUsesLogTimezone(t *testing.T) {
	h := habit.HabitTask{StartDate: date(2024, 1, 1), FrequencyOfTask: "1"}
	l := habit.TaskLog{
		Status:     habit.StatusCompleted,
		OccurredAt: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC),
		TZ:         "Asia/Kolkata",
	}

	m, err := newReconciler().Reconcile(h, l)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 2), *m.LastExecutionDate)
	assert.Equal(t, date(2024, 1, 3), *m.NextExecutionDate)
}

func TestReconcileQuantityWithoutTarget(t *testing.T) {
	h := habit.HabitTask{StartDate: date(2024, 1, 1), FrequencyOfTask: "1"}

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 1, 5), ptr(12.0)))
	require.NoError(t, err)
	assert.Nil(t, m.CurrentProgress)
	assert.Zero(t, m.Apply(h).CurrentProgress)
}

func TestReconcileInvalidFrequencyStillTracksProgress(t *testing.T) {
	h := targetHabit(10, 0)
	h.FrequencyOfTask = "0"

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 6, 1), ptr(4.0)))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
	assert.Nil(t, m.NextExecutionDate)
	require.NotNil(t, m.CurrentProgress)
	assert.Equal(t, 4.0, *m.CurrentProgress)
}

func TestReconcileNegativeQuantityStillReschedules(t *testing.T) {
	h := targetHabit(10, 2)

	m, err := newReconciler().Reconcile(h, completedLog(date(2024, 6, 1), ptr(-4.0)))
	assert.ErrorIs(t, err, ErrNegativeQuantity)
	assert.Nil(t, m.CurrentProgress)
	assert.Equal(t, date(2024, 6, 2), *m.NextExecutionDate)
}

func TestReconcileFallsBackToStoredLocalDate(t *testing.T) {
	h := habit.HabitTask{StartDate: date(2024, 1, 1), FrequencyOfTask: "2"}
	l := habit.TaskLog{Status: habit.StatusCompleted, TZ: "Nowhere/Special", LocalDate: date(2024, 2, 1)}

	m, err := newReconciler().Reconcile(h, l)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 3), *m.NextExecutionDate)
}

func TestReconcileUnknownZoneWithoutLocalDate(t *testing.T) {
	h := targetHabit(10, 0)
	l := habit.TaskLog{Status: habit.StatusCompleted, TZ: "Nowhere/Special", Quantity: ptr(1.0)}

	m, err := newReconciler().Reconcile(h, l)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
	assert.Nil(t, m.NextExecutionDate)
	assert.Equal(t, 1.0, *m.CurrentProgress)
}
