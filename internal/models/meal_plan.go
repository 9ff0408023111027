package models

import "time"

// MealType represents the meal slot a plan is scheduled for
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// RecurrenceFrequency represents how often a recurring meal plan repeats
type RecurrenceFrequency string

const (
	FrequencyDaily  RecurrenceFrequency = "daily"
	FrequencyWeekly RecurrenceFrequency = "weekly"
)

// MealPlan represents a scheduled (and optionally recurring) intended order
// for a specific date and meal slot. Price is in minor currency units.
type MealPlan struct {
	Base
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Date          time.Time `gorm:"not null;index" json:"date"`
	MealType      MealType  `gorm:"not null" json:"meal_type"`
	FoodName      string    `gorm:"not null" json:"food_name"`
	Restaurant    string    `json:"restaurant"`
	Price         int64     `gorm:"type:bigint;not null" json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	ScheduledTime string    `json:"scheduled_time"` // "HH:MM"
	IsOrdered     bool      `gorm:"default:false" json:"is_ordered"`
	IsRecurring   bool      `gorm:"default:false" json:"is_recurring"`
	Notes         string    `json:"notes,omitempty"`
}
