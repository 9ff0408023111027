package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"feastly/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoal creates a goal with the given target amount (in cents) and a
// deadline a month out.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount int64) *models.BudgetGoal {
	t.Helper()

	goal := &models.BudgetGoal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		Deadline:     time.Now().AddDate(0, 1, 0),
		Category:     "dining",
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestTransaction creates a transaction with the given signed amount
// (in cents), optionally linked to a goal.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, budgetID *uint, amount int64) *models.BudgetTransaction {
	t.Helper()

	tx := &models.BudgetTransaction{
		UserID:          userID,
		BudgetID:        budgetID,
		Amount:          amount,
		Category:        "dining",
		TransactionDate: time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestMealPlan creates a meal plan on the given date and meal slot.
func CreateTestMealPlan(t *testing.T, db *gorm.DB, userID uint, date time.Time, mealType models.MealType) *models.MealPlan {
	t.Helper()

	plan := &models.MealPlan{
		UserID:   userID,
		Date:     date,
		MealType: mealType,
		FoodName: fmt.Sprintf("Test Meal %d", nextID()),
		Price:    1200, // $12.00
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test meal plan: %v", err)
	}
	return plan
}
