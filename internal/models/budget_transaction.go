package models

import "time"

// BudgetTransaction represents a single signed monetary event, optionally
// linked to a goal. Negative amounts are expenses, positive amounts are
// savings/credits. Transactions are immutable once created except for
// deletion, which reverses their effect on the linked goal.
type BudgetTransaction struct {
	Base
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	BudgetID        *uint     `gorm:"index" json:"budget_id,omitempty"`
	Amount          int64     `gorm:"type:bigint;not null" json:"amount"`
	Description     string    `json:"description"`
	Category        string    `gorm:"not null" json:"category"`
	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`
	Restaurant      string    `json:"restaurant,omitempty"`

	// Relationships
	Budget *BudgetGoal `gorm:"foreignKey:BudgetID;constraint:OnDelete:SET NULL" json:"budget,omitempty"`
}
