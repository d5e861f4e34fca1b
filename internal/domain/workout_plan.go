package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single prescribed exercise within a plan's weekday list.
type Exercise struct {
	Name         string `bson:"name" json:"name"`
	Sets         int    `bson:"sets" json:"sets"`
	Reps         int    `bson:"reps" json:"reps"`
	RestDuration string `bson:"restDuration,omitempty" json:"restDuration,omitempty"` // e.g. "90s", "2min"
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutPlan is a weekly recurring exercise schedule a trainer authors for
// a member, active over an inclusive date range. A weekday absent from Days
// (or present with an empty list) means no workout that weekday.
type WorkoutPlan struct {
	ID        primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID    `bson:"memberId" json:"memberId"`   // Who the plan is for
	TrainerID primitive.ObjectID    `bson:"trainerId" json:"trainerId"` // Who created the plan
	Name      string                `bson:"name" json:"name"`           // e.g. "Phase 1: Hypertrophy"
	StartDate time.Time             `bson:"startDate" json:"startDate"` // Inclusive
	EndDate   time.Time             `bson:"endDate" json:"endDate"`     // Inclusive
	Days      map[Weekday][]Exercise `bson:"days" json:"days"`
	Notes     string                `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// CoversDate reports whether the given calendar date falls inside the plan's
// inclusive [StartDate, EndDate] range. Time-of-day is ignored on both sides.
func (p *WorkoutPlan) CoversDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// ExercisesOn returns the exercise list scheduled for the given weekday,
// or nil when that weekday has no workout.
func (p *WorkoutPlan) ExercisesOn(day Weekday) []Exercise {
	exercises := p.Days[day]
	if len(exercises) == 0 {
		return nil
	}
	return exercises
}

// FirstScheduledDay returns the first weekday (Monday-first order) with a
// non-empty exercise list, or false when the plan schedules nothing at all.
func (p *WorkoutPlan) FirstScheduledDay() (Weekday, bool) {
	for _, day := range Weekdays {
		if len(p.Days[day]) > 0 {
			return day, true
		}
	}
	return "", false
}
