package models

import "time"

// BudgetGoal represents a named savings target with a deadline and running total.
// CurrentAmount is maintained as the signed sum of all transactions referencing
// the goal; IsCompleted is derived and must hold CurrentAmount >= TargetAmount.
// All monetary values are in minor currency units.
type BudgetGoal struct {
	Base
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Name          string    `gorm:"not null" json:"name"`
	TargetAmount  int64     `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64     `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      time.Time `gorm:"not null" json:"deadline"`
	Category      string    `gorm:"not null" json:"category"`
	IsCompleted   bool      `gorm:"default:false" json:"is_completed"`
	IsRecurring   bool      `gorm:"default:false" json:"is_recurring"`

	// Relationships
	Transactions []BudgetTransaction `gorm:"foreignKey:BudgetID" json:"transactions,omitempty"`
}
