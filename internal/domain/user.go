package domain

import "time"

// Gender enumerates profile gender values used for calorie targeting.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Goal enumerates training goals.
type Goal string

const (
	GoalWeightLoss    Goal = "weight_loss"
	GoalMuscleGain    Goal = "muscle_gain"
	GoalMaintenance   Goal = "maintenance"
	GoalRecomposition Goal = "recomposition"
)

// ActivityLevel enumerates day-to-day activity multipliers.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityMedium    ActivityLevel = "medium"
	ActivityHigh      ActivityLevel = "high"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	}
	return "", ErrInvalidInput
}

func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance, GoalRecomposition:
		return Goal(s), nil
	}
	return "", ErrInvalidInput
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch ActivityLevel(s) {
	case ActivitySedentary, ActivityLight, ActivityMedium, ActivityHigh:
		return ActivityLevel(s), nil
	}
	return "", ErrInvalidInput
}

// User represents a coached account. The record is owned by the user-record
// collaborator; this engine reads the profile attributes as generation input
// and writes only the quota ledger, the cooldown anchors and the stored plans.
type User struct {
	TelegramID    int64
	Name          string
	Age           int
	Weight        float64
	Height        float64
	Gender        Gender
	ActivityLevel ActivityLevel
	Goal          Goal
	WorkoutLevel  string
	WorkoutDays   int

	PlanQuota int
	ChatQuota int

	WorkoutGeneratedAt   *time.Time
	NutritionGeneratedAt *time.Time

	Privileged bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProfile reports whether the profile carries enough data to build a prompt.
func (u User) HasProfile() bool {
	return u.Weight > 0 && u.Age > 0
}

// GeneratedAt returns the cooldown anchor for the given content type.
func (u User) GeneratedAt(ct ContentType) *time.Time {
	if ct == ContentNutrition {
		return u.NutritionGeneratedAt
	}
	return u.WorkoutGeneratedAt
}
