package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
)

// summaryService computes period aggregations over a user's transactions.
type summaryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db, now: time.Now}
}

// GetBudgetSummary aggregates the user's transactions over the trailing
// period window. Expenses (negative amounts) and savings (positive amounts)
// partition the set exactly; zero amounts never occur (rejected on create).
func (s *summaryService) GetBudgetSummary(userID uint, period SummaryPeriod) (*BudgetSummary, error) {
	endDate := s.now()
	var startDate time.Time
	switch period {
	case PeriodWeek:
		startDate = endDate.AddDate(0, 0, -7)
	case PeriodMonth:
		startDate = endDate.AddDate(0, -1, 0)
	case PeriodYear:
		startDate = endDate.AddDate(-1, 0, 0)
	default:
		return nil, apperrors.ErrInvalidPeriod
	}

	var transactions []models.BudgetTransaction
	if err := s.db.
		Where("user_id = ? AND transaction_date BETWEEN ? AND ?", userID, startDate, endDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalSpent, totalSaved int64
	byCategory := make(map[string]int64)
	for _, tx := range transactions {
		switch {
		case tx.Amount < 0:
			totalSpent += -tx.Amount
			byCategory[tx.Category] += -tx.Amount
		case tx.Amount > 0:
			totalSaved += tx.Amount
		}
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		categories = append(categories, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Amount > categories[j].Amount
	})

	// Sum targets of goals still in progress
	var totalBudget int64
	if err := s.db.Model(&models.BudgetGoal{}).
		Select("COALESCE(SUM(target_amount), 0)").
		Where("user_id = ? AND is_completed = ?", userID, false).
		Scan(&totalBudget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &BudgetSummary{
		TotalSpent:  totalSpent,
		TotalSaved:  totalSaved,
		TotalBudget: totalBudget,
		Remaining:   totalBudget - totalSpent,
		Categories:  categories,
		Period:      period,
	}, nil
}
