package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseStatus records completion of one scheduled exercise on one date.
type ExerciseStatus struct {
	Name      string `bson:"name" json:"name"`
	Completed bool   `bson:"completed" json:"completed"`
}

// WorkoutProgress is the daily completion log for a member working through
// a plan: at most one record per (memberId, planId, date), created lazily
// on the first toggle of any exercise that day.
type WorkoutProgress struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID primitive.ObjectID `bson:"memberId" json:"memberId"`
	PlanID   primitive.ObjectID `bson:"planId" json:"planId"`
	Date     time.Time          `bson:"date" json:"date"` // Normalized to midnight UTC
	Day      Weekday            `bson:"day" json:"day"`   // Redundant, kept for display

	// One entry per exercise scheduled that day under the referenced plan.
	Exercises []ExerciseStatus `bson:"exercises" json:"exercises"`

	// Completed is true iff every entry in Exercises is completed.
	Completed bool `bson:"completed" json:"completed"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CompletedCount returns how many exercise entries are marked complete.
func (p *WorkoutProgress) CompletedCount() int {
	count := 0
	for _, ex := range p.Exercises {
		if ex.Completed {
			count++
		}
	}
	return count
}
