package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults applied when a goal field is missing or cannot be sanitized.
const (
	DefaultPrimaryGoal          = "General Fitness"
	DefaultWeeklyWorkoutTarget  = 3
	DefaultPreferredWorkoutTime = "Evening"
)

// GoalProfile holds the goal fields tracked both on the standalone
// FitnessGoal record and on the mirror embedded in the member's User
// document. The two must stay field-for-field identical.
type GoalProfile struct {
	PrimaryGoal          string   `bson:"primaryGoal" json:"primaryGoal"`
	CurrentWeight        float64  `bson:"currentWeight" json:"currentWeight"`
	TargetWeight         float64  `bson:"targetWeight" json:"targetWeight"`
	WeeklyWorkoutTarget  int      `bson:"weeklyWorkoutTarget" json:"weeklyWorkoutTarget"`
	PreferredWorkoutTime string   `bson:"preferredWorkoutTime" json:"preferredWorkoutTime"`
	DietaryPreferences   []string `bson:"dietaryPreferences" json:"dietaryPreferences"`
}

// FitnessGoal is the standalone (source of truth) goal record for a member.
type FitnessGoal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID    primitive.ObjectID `bson:"memberId" json:"memberId"`
	GoalProfile `bson:",inline"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultGoalProfile returns the documented defaults for a member with no
// recorded goals.
func DefaultGoalProfile() GoalProfile {
	return GoalProfile{
		PrimaryGoal:          DefaultPrimaryGoal,
		CurrentWeight:        0,
		TargetWeight:         0,
		WeeklyWorkoutTarget:  DefaultWeeklyWorkoutTarget,
		PreferredWorkoutTime: DefaultPreferredWorkoutTime,
		DietaryPreferences:   []string{},
	}
}

// Sanitize replaces unusable values with their defaults: NaN/Inf or negative
// weights become 0, a non-positive weekly target becomes 3, empty strings
// fall back to the documented defaults, and a nil preference list becomes
// an empty one.
func (g GoalProfile) Sanitize() GoalProfile {
	if math.IsNaN(g.CurrentWeight) || math.IsInf(g.CurrentWeight, 0) || g.CurrentWeight < 0 {
		g.CurrentWeight = 0
	}
	if math.IsNaN(g.TargetWeight) || math.IsInf(g.TargetWeight, 0) || g.TargetWeight < 0 {
		g.TargetWeight = 0
	}
	if g.WeeklyWorkoutTarget <= 0 {
		g.WeeklyWorkoutTarget = DefaultWeeklyWorkoutTarget
	}
	if g.PrimaryGoal == "" {
		g.PrimaryGoal = DefaultPrimaryGoal
	}
	if g.PreferredWorkoutTime == "" {
		g.PreferredWorkoutTime = DefaultPreferredWorkoutTime
	}
	if g.DietaryPreferences == nil {
		g.DietaryPreferences = []string{}
	}
	return g
}

// Equal compares every tracked field, including preference order.
func (g GoalProfile) Equal(other GoalProfile) bool {
	if g.PrimaryGoal != other.PrimaryGoal ||
		g.CurrentWeight != other.CurrentWeight ||
		g.TargetWeight != other.TargetWeight ||
		g.WeeklyWorkoutTarget != other.WeeklyWorkoutTarget ||
		g.PreferredWorkoutTime != other.PreferredWorkoutTime {
		return false
	}
	if len(g.DietaryPreferences) != len(other.DietaryPreferences) {
		return false
	}
	for i, pref := range g.DietaryPreferences {
		if pref != other.DietaryPreferences[i] {
			return false
		}
	}
	return true
}
