package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
	"feastly/internal/pagination"
)

// transactionService handles budget-transaction business logic.
type transactionService struct {
	db          *gorm.DB
	goalService GoalServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, goalService GoalServicer) TransactionServicer {
	return &transactionService{
		db:          db,
		goalService: goalService,
	}
}

// CreateTransaction records a signed monetary event for a user. Negative
// amounts are expenses, positive amounts are savings toward a goal. When a
// goal is referenced, the insert and the goal-total adjustment run in a
// single database transaction.
func (s *transactionService) CreateTransaction(
	userID uint,
	budgetID *uint,
	amount int64,
	description, category string,
	transactionDate time.Time,
	restaurant string,
) (*models.BudgetTransaction, error) {
	if amount == 0 {
		return nil, apperrors.ErrZeroAmount
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	// Default date to now if not provided
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	// Verify the referenced goal exists and belongs to the user before writing
	if budgetID != nil {
		if _, err := s.goalService.GetGoalByID(userID, *budgetID); err != nil {
			return nil, err
		}
	}

	transaction := &models.BudgetTransaction{
		UserID:          userID,
		BudgetID:        budgetID,
		Amount:          amount,
		Description:     description,
		Category:        category,
		TransactionDate: transactionDate,
		Restaurant:      restaurant,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if budgetID != nil {
			if err := s.goalService.ApplyGoalDelta(tx, userID, *budgetID, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.BudgetTransaction], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetTransaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.BudgetTransaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.BudgetID != nil {
		q = q.Where("budget_id = ?", *f.BudgetID)
	}
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", *f.ToDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.BudgetTransaction, error) {
	var transaction models.BudgetTransaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its effect on the
// linked goal. The reversal amount comes from the stored row, never from the
// caller, so a stale client cannot corrupt the goal total.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.BudgetID != nil {
			if err := s.goalService.ApplyGoalDelta(tx, userID, *transaction.BudgetID, -transaction.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}
