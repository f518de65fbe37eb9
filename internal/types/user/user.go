package user

import (
	"time"

	"habitTrackerAPI/internal/types/plan"
)

type User struct {
	ID        int64             `json:"id" db:"id"`
	Name      string            `json:"name" db:"name"`
	Email     string            `json:"email" db:"email"`
	MonPlan   *plan.WorkoutPlan `json:"monPlan" db:"mon_plan"`
	TuePlan   *plan.WorkoutPlan `json:"tuePlan" db:"tue_plan"`
	WedPlan   *plan.WorkoutPlan `json:"wedPlan" db:"wed_plan"`
	ThuPlan   *plan.WorkoutPlan `json:"thuPlan" db:"thu_plan"`
	FriPlan   *plan.WorkoutPlan `json:"friPlan" db:"fri_plan"`
	SatPlan   *plan.WorkoutPlan `json:"satPlan" db:"sat_plan"`
	SunPlan   *plan.WorkoutPlan `json:"sunPlan" db:"sun_plan"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}

// PlanSlot returns the field holding the plan for day, or nil for an
// invalid day.
func (u *User) PlanSlot(day plan.Weekday) **plan.WorkoutPlan {
	switch day {
	case plan.Monday:
		return &u.MonPlan
	case plan.Tuesday:
		return &u.TuePlan
	case plan.Wednesday:
		return &u.WedPlan
	case plan.Thursday:
		return &u.ThuPlan
	case plan.Friday:
		return &u.FriPlan
	case plan.Saturday:
		return &u.SatPlan
	case plan.Sunday:
		return &u.SunPlan
	}
	return nil
}

func (u *User) Plan(day plan.Weekday) *plan.WorkoutPlan {
	if slot := u.PlanSlot(day); slot != nil {
		return *slot
	}
	return nil
}
