package services

import (
	"time"

	"gorm.io/gorm"

	"feastly/internal/models"
	"feastly/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// GoalUpdateFields holds optional fields for a partial goal update.
type GoalUpdateFields struct {
	Name         *string
	TargetAmount *int64
	Deadline     *time.Time
	Category     *string
	IsRecurring  *bool
}

// GoalServicer defines the contract for budget-goal business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name string, targetAmount int64, deadline time.Time, category string, isRecurring bool) (*models.BudgetGoal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetGoal], error)
	GetGoalByID(userID, goalID uint) (*models.BudgetGoal, error)
	UpdateGoal(userID, goalID uint, fields GoalUpdateFields) (*models.BudgetGoal, error)
	DeleteGoal(userID, goalID uint) error
	// ApplyGoalDelta atomically adds delta to the goal's running total and
	// re-derives is_completed in a single UPDATE, using the caller's DB handle
	// so it can participate in an enclosing transaction.
	ApplyGoalDelta(tx *gorm.DB, userID, goalID uint, delta int64) error
	RecalculateGoal(userID, goalID uint) (*models.BudgetGoal, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Category *string
	BudgetID *uint
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for budget-transaction business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, budgetID *uint, amount int64, description, category string, transactionDate time.Time, restaurant string) (*models.BudgetTransaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.BudgetTransaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.BudgetTransaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// SummaryPeriod selects the aggregation window for a budget summary.
type SummaryPeriod string

const (
	PeriodWeek  SummaryPeriod = "week"
	PeriodMonth SummaryPeriod = "month"
	PeriodYear  SummaryPeriod = "year"
)

// CategoryTotal is the summed expense amount for a single category.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// BudgetSummary aggregates a user's transactions over a period.
type BudgetSummary struct {
	TotalSpent  int64           `json:"total_spent"`
	TotalSaved  int64           `json:"total_saved"`
	TotalBudget int64           `json:"total_budget"`
	Remaining   int64           `json:"remaining"`
	Categories  []CategoryTotal `json:"categories"`
	Period      SummaryPeriod   `json:"period"`
}

// SummaryServicer defines the contract for budget summary aggregation.
type SummaryServicer interface {
	GetBudgetSummary(userID uint, period SummaryPeriod) (*BudgetSummary, error)
}

// MealPlanInput holds the fields for creating a meal plan.
type MealPlanInput struct {
	Date          time.Time
	MealType      models.MealType
	FoodName      string
	Restaurant    string
	Price         int64
	ImageURL      string
	ScheduledTime string
	IsRecurring   bool
	Notes         string
}

// MealPlanUpdateFields holds optional fields for a partial meal plan update.
type MealPlanUpdateFields struct {
	Date          *time.Time
	MealType      *models.MealType
	FoodName      *string
	Restaurant    *string
	Price         *int64
	ImageURL      *string
	ScheduledTime *string
	IsRecurring   *bool
	Notes         *string
}

// RecurrencePattern describes how a recurring meal plan series is generated.
// DaysOfWeek is an allow-list (empty means every candidate date qualifies).
type RecurrencePattern struct {
	Frequency   models.RecurrenceFrequency
	DaysOfWeek  []time.Weekday
	Occurrences int
}

// WeekMealPlans groups a week's meal plans by date (YYYY-MM-DD), then meal type.
type WeekMealPlans map[string]map[models.MealType][]models.MealPlan

// MealPlanServicer defines the contract for meal-plan business logic.
type MealPlanServicer interface {
	CreateMealPlan(userID uint, in MealPlanInput) (*models.MealPlan, error)
	CreateRecurringMealPlans(userID uint, in MealPlanInput, pattern RecurrencePattern) ([]models.MealPlan, error)
	GetUserMealPlans(userID uint, page pagination.PageRequest, fromDate, toDate *time.Time) (*pagination.PageResponse[models.MealPlan], error)
	GetMealPlanByID(userID, mealPlanID uint) (*models.MealPlan, error)
	UpdateMealPlan(userID, mealPlanID uint, fields MealPlanUpdateFields) (*models.MealPlan, error)
	MarkOrdered(userID, mealPlanID uint) (*models.MealPlan, error)
	DeleteMealPlan(userID, mealPlanID uint) error
	GetWeekMealPlans(userID uint, now time.Time) (WeekMealPlans, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
