package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleOwner   Role = "owner" // Gym owner / administrator
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

// User represents a user in the system (gym owner, trainer, or member).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	// ObjectIDs of the members coached by this trainer.
	MemberIDs []primitive.ObjectID `bson:"memberIds,omitempty" json:"memberIds,omitempty"`

	// --- Member-specific ---
	// The trainer coaching this member, if any.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`

	// FitnessGoals is the denormalized mirror of the member's standalone
	// FitnessGoal record, kept for cheap reads on member screens. The
	// standalone record is the source of truth; the goal service
	// reconciles the two.
	FitnessGoals *GoalProfile `bson:"fitnessGoals,omitempty" json:"fitnessGoals,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsMember() bool {
	return u.Role == RoleMember
}
