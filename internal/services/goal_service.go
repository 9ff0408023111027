package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
	"feastly/internal/pagination"
)

// goalService handles budget-goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new budget goal. The running total always starts at
// zero and completion is derived, so neither is accepted from the caller.
func (s *goalService) CreateGoal(
	userID uint,
	name string,
	targetAmount int64,
	deadline time.Time,
	category string,
	isRecurring bool,
) (*models.BudgetGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if deadline.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deadline is required")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	goal := &models.BudgetGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  targetAmount,
		CurrentAmount: 0,
		Deadline:      deadline,
		Category:      category,
		IsCompleted:   false,
		IsRecurring:   isRecurring,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns a paginated list of the user's goals, newest first.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.BudgetGoal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.BudgetGoal, error) {
	var goal models.BudgetGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial update. Changing the target amount re-derives
// is_completed against the stored running total in the same UPDATE so the
// completion invariant holds even under concurrent postings.
func (s *goalService) UpdateGoal(userID, goalID uint, fields GoalUpdateFields) (*models.BudgetGoal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.TargetAmount != nil {
		if *fields.TargetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *fields.TargetAmount
		updates["is_completed"] = gorm.Expr("current_amount >= ?", *fields.TargetAmount)
	}
	if fields.Deadline != nil {
		updates["deadline"] = *fields.Deadline
	}
	if fields.Category != nil && *fields.Category != "" {
		updates["category"] = *fields.Category
	}
	if fields.IsRecurring != nil {
		updates["is_recurring"] = *fields.IsRecurring
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		if err := s.db.Where("id = ?", goal.ID).First(goal).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal soft-deletes a goal and detaches its transactions. Detach and
// delete run in one database transaction so no dangling references survive.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BudgetTransaction{}).
			Where("budget_id = ?", goal.ID).
			Update("budget_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ApplyGoalDelta adds delta to the goal's running total. Both the increment
// and the completion flag are computed server-side from the stored row, so
// concurrent postings cannot lose an update.
func (s *goalService) ApplyGoalDelta(tx *gorm.DB, userID, goalID uint, delta int64) error {
	res := tx.Model(&models.BudgetGoal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(map[string]interface{}{
			"current_amount": gorm.Expr("current_amount + ?", delta),
			"is_completed":   gorm.Expr("current_amount + ? >= target_amount", delta),
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// RecalculateGoal rebuilds the goal's running total from the signed sum of
// its referencing transactions, repairing any drift between the incremental
// total and the source rows.
func (s *goalService) RecalculateGoal(userID, goalID uint) (*models.BudgetGoal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.BudgetTransaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("budget_id = ? AND user_id = ?", goal.ID, userID).
			Scan(&total).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(goal).Updates(map[string]interface{}{
			"current_amount": total,
			"is_completed":   total >= goal.TargetAmount,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("id = ?", goal.ID).First(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}
