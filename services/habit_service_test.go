package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/category"
	"habitTrackerAPI/internal/types/habit"
)

func TestCreateHabitDefaults(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, " 3 ", ptr(50.0))

	assert.Equal(t, habit.Frequency("3"), h.FrequencyOfTask)
	assert.Equal(t, day(2024, 1, 1), *h.NextExecutionDate)
	assert.Nil(t, h.LastExecutionDate)
	assert.Equal(t, "km", *h.TargetUnit)
	require.NotNil(t, h.TargetSetAt)
	assert.Equal(t, testNow, *h.TargetSetAt)
}

func TestCreateHabitRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.habits.CreateHabit(ctx, f.userID, &habit.CreateHabitRequest{TaskName: "Run"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 2)

	valid := &habit.CreateHabitRequest{TaskName: "Run", StartDate: ptr(day(2024, 1, 1)), FrequencyOfTask: "1"}
	_, err = f.habits.CreateHabit(ctx, 999, valid)
	assert.ErrorIs(t, err, ErrUserNotFound)

	valid.CategoryID = ptr(int64(12345))
	_, err = f.habits.CreateHabit(ctx, f.userID, valid)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestListHabitsDueFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := f.createHabit(t, "1", nil)
	late, err := f.habits.CreateHabit(ctx, f.userID, &habit.CreateHabitRequest{
		TaskName: "Swim", StartDate: ptr(day(2024, 6, 1)), FrequencyOfTask: "1", DisplayOrder: ptr(1),
	})
	require.NoError(t, err)

	all, err := f.habits.ListHabits(ctx, f.userID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, late.ID, all[0].ID)

	due, err := f.habits.ListHabits(ctx, f.userID, ptr(day(2024, 3, 1)))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, early.ID, due[0].ID)
}

func TestUpdateHabit(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)
	ctx := context.Background()

	updated, err := f.habits.UpdateHabit(ctx, f.userID, h.ID, &habit.UpdateHabitRequest{
		TaskName:          ptr("  Long run "),
		NextExecutionDate: ptr(day(2024, 5, 5)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Long run", updated.TaskName)
	assert.Equal(t, day(2024, 5, 5), *updated.NextExecutionDate)

	archived, err := f.habits.UpdateHabit(ctx, f.userID, h.ID, &habit.UpdateHabitRequest{Archived: ptr(true)})
	require.NoError(t, err)
	assert.True(t, archived.Archived())

	list, err := f.habits.ListHabits(ctx, f.userID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateHabitErrors(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)
	ctx := context.Background()

	var verr *ValidationError
	_, err := f.habits.UpdateHabit(ctx, f.userID, h.ID, &habit.UpdateHabitRequest{})
	assert.ErrorAs(t, err, &verr)

	_, err = f.habits.UpdateHabit(ctx, f.userID+1, h.ID, &habit.UpdateHabitRequest{TaskName: ptr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.habits.UpdateHabit(ctx, f.userID, 9999, &habit.UpdateHabitRequest{TaskName: ptr("x")})
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestSetTargetArchivesPrevious(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", ptr(10.0))
	ctx := context.Background()

	_, err := f.logs.CreateLog(ctx, f.userID, "", &habit.CreateLogRequest{TaskID: h.ID, Quantity: ptr(12.0)})
	require.NoError(t, err)

	updated, err := f.habits.SetTarget(ctx, f.userID, h.ID, &habit.SetTargetRequest{TargetValue: ptr(20.0), TargetUnit: "miles"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, *updated.TargetValue)
	assert.Equal(t, "miles", *updated.TargetUnit)
	assert.Zero(t, updated.CurrentProgress)
	assert.False(t, updated.TargetAchieved)
	assert.Nil(t, updated.TargetAchievedAt)

	history, err := f.habits.TargetHistory(ctx, f.userID, h.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 10.0, history[0].TargetValue)
	assert.Equal(t, "km", history[0].TargetUnit)
	assert.Equal(t, 12.0, history[0].FinalProgress)
	assert.NotNil(t, history[0].AchievedAt)
}

func TestSetTargetFirstTimeHasNoHistory(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)
	ctx := context.Background()

	_, err := f.habits.SetTarget(ctx, f.userID, h.ID, &habit.SetTargetRequest{TargetValue: ptr(5.0), TargetUnit: "pages"})
	require.NoError(t, err)

	history, err := f.habits.TargetHistory(ctx, f.userID, h.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	var verr *ValidationError
	_, err = f.habits.SetTarget(ctx, f.userID, h.ID, &habit.SetTargetRequest{TargetValue: ptr(0.0), TargetUnit: "pages"})
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteHabit(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.habits.DeleteHabit(ctx, f.userID+1, h.ID), ErrForbidden)
	require.NoError(t, f.habits.DeleteHabit(ctx, f.userID, h.ID))

	_, err := f.habits.GetHabit(ctx, f.userID, h.ID)
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestDeleteCategoryDetachesHabits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.categorys.CreateCategory(ctx, f.userID, &category.CreateCategoryRequest{Name: "Health"})
	require.NoError(t, err)

	h, err := f.habits.CreateHabit(ctx, f.userID, &habit.CreateHabitRequest{
		TaskName: "Walk", StartDate: ptr(day(2024, 1, 1)), FrequencyOfTask: "1", CategoryID: &c.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.categorys.DeleteCategory(ctx, f.userID, c.ID))

	stored, err := f.habits.GetHabit(ctx, f.userID, h.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)
}
