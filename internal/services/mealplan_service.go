package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
	"feastly/internal/pagination"
)

// maxRecurringOccurrences bounds how many rows a single recurring series may create.
const maxRecurringOccurrences = 365

// mealPlanService handles meal-plan business logic.
type mealPlanService struct {
	db *gorm.DB
}

// NewMealPlanService creates a new MealPlanServicer.
func NewMealPlanService(db *gorm.DB) MealPlanServicer {
	return &mealPlanService{db: db}
}

func validateMealPlanInput(in MealPlanInput) error {
	if in.FoodName == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "food name is required")
	}
	if in.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if in.Price < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price cannot be negative")
	}
	switch in.MealType {
	case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid meal type")
	}
	return nil
}

// CreateMealPlan creates a single meal plan for a user.
func (s *mealPlanService) CreateMealPlan(userID uint, in MealPlanInput) (*models.MealPlan, error) {
	if err := validateMealPlanInput(in); err != nil {
		return nil, err
	}

	plan := &models.MealPlan{
		UserID:        userID,
		Date:          in.Date,
		MealType:      in.MealType,
		FoodName:      in.FoodName,
		Restaurant:    in.Restaurant,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		ScheduledTime: in.ScheduledTime,
		IsOrdered:     false,
		IsRecurring:   in.IsRecurring,
		Notes:         in.Notes,
	}

	if err := s.db.Create(plan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return plan, nil
}

// CreateRecurringMealPlans expands a base plan into a dated series and inserts
// the whole series in one batch. The series contains exactly
// pattern.Occurrences plans whose weekday passes the allow-list; candidate
// dates are scanned forward until enough qualify. A pattern that can never
// match (weekly recurrence whose base weekday is excluded) is rejected before
// anything is written.
func (s *mealPlanService) CreateRecurringMealPlans(userID uint, in MealPlanInput, pattern RecurrencePattern) ([]models.MealPlan, error) {
	if err := validateMealPlanInput(in); err != nil {
		return nil, err
	}
	if pattern.Occurrences < 1 || pattern.Occurrences > maxRecurringOccurrences {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurrence, "occurrences must be between 1 and 365")
	}
	var step int
	switch pattern.Frequency {
	case models.FrequencyDaily:
		step = 1
	case models.FrequencyWeekly:
		step = 7
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurrence, "frequency must be daily or weekly")
	}
	allowed := make(map[time.Weekday]bool, len(pattern.DaysOfWeek))
	for _, d := range pattern.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurrence, "days of week must be 0 (Sunday) through 6 (Saturday)")
		}
		allowed[d] = true
	}

	dates := expandRecurrence(in.Date, step, allowed, pattern.Occurrences)
	if len(dates) == 0 {
		return nil, apperrors.ErrNoRecurringDates
	}

	plans := make([]models.MealPlan, 0, len(dates))
	for _, date := range dates {
		plans = append(plans, models.MealPlan{
			UserID:        userID,
			Date:          date,
			MealType:      in.MealType,
			FoodName:      in.FoodName,
			Restaurant:    in.Restaurant,
			Price:         in.Price,
			ImageURL:      in.ImageURL,
			ScheduledTime: in.ScheduledTime,
			IsRecurring:   true,
			Notes:         in.Notes,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plans).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plans, nil
}

// expandRecurrence walks candidate dates from base in the given day step and
// collects those whose weekday is allowed (an empty allow-list admits all),
// until count dates are found. The scan is bounded: a weekly series visits
// only one weekday, so an allow-list excluding it yields nothing.
func expandRecurrence(base time.Time, step int, allowed map[time.Weekday]bool, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	// Seven steps always cover every weekday the series can reach.
	limit := count * 7
	for i := 0; i < limit && len(dates) < count; i++ {
		candidate := base.AddDate(0, 0, i*step)
		if len(allowed) > 0 && !allowed[candidate.Weekday()] {
			continue
		}
		dates = append(dates, candidate)
	}
	return dates
}

// GetUserMealPlans retrieves a paginated list of the user's meal plans,
// optionally restricted to a date range, ordered by date.
func (s *mealPlanService) GetUserMealPlans(userID uint, page pagination.PageRequest, fromDate, toDate *time.Time) (*pagination.PageResponse[models.MealPlan], error) {
	page.Defaults()

	base := s.db.Model(&models.MealPlan{}).Where("user_id = ?", userID)
	if fromDate != nil {
		base = base.Where("date >= ?", *fromDate)
	}
	if toDate != nil {
		base = base.Where("date <= ?", *toDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var plans []models.MealPlan
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date ASC, scheduled_time ASC").
		Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(plans, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMealPlanByID retrieves a meal plan by ID for a specific user
func (s *mealPlanService) GetMealPlanByID(userID, mealPlanID uint) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := s.db.Where("id = ? AND user_id = ?", mealPlanID, userID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMealPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// UpdateMealPlan applies a partial update to an existing meal plan.
func (s *mealPlanService) UpdateMealPlan(userID, mealPlanID uint, fields MealPlanUpdateFields) (*models.MealPlan, error) {
	plan, err := s.GetMealPlanByID(userID, mealPlanID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.MealType != nil {
		switch *fields.MealType {
		case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack:
			updates["meal_type"] = *fields.MealType
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid meal type")
		}
	}
	if fields.FoodName != nil && *fields.FoodName != "" {
		updates["food_name"] = *fields.FoodName
	}
	if fields.Restaurant != nil {
		updates["restaurant"] = *fields.Restaurant
	}
	if fields.Price != nil {
		if *fields.Price < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price cannot be negative")
		}
		updates["price"] = *fields.Price
	}
	if fields.ImageURL != nil {
		updates["image_url"] = *fields.ImageURL
	}
	if fields.ScheduledTime != nil {
		updates["scheduled_time"] = *fields.ScheduledTime
	}
	if fields.IsRecurring != nil {
		updates["is_recurring"] = *fields.IsRecurring
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(plan).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", plan.ID).First(plan).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return plan, nil
}

// MarkOrdered marks a meal plan as ordered. Ordering is one-way: a plan that
// has already been ordered cannot be ordered again.
func (s *mealPlanService) MarkOrdered(userID, mealPlanID uint) (*models.MealPlan, error) {
	plan, err := s.GetMealPlanByID(userID, mealPlanID)
	if err != nil {
		return nil, err
	}

	if plan.IsOrdered {
		return nil, apperrors.ErrAlreadyOrdered
	}

	if err := s.db.Model(plan).Update("is_ordered", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	plan.IsOrdered = true

	return plan, nil
}

// DeleteMealPlan soft-deletes a meal plan.
func (s *mealPlanService) DeleteMealPlan(userID, mealPlanID uint) error {
	plan, err := s.GetMealPlanByID(userID, mealPlanID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(plan).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetWeekMealPlans fetches the current Sunday-through-Saturday window and
// groups the results by date, then meal type.
func (s *mealPlanService) GetWeekMealPlans(userID uint, now time.Time) (WeekMealPlans, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := day.AddDate(0, 0, -int(day.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	var plans []models.MealPlan
	if err := s.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, weekStart, weekEnd).
		Order("date ASC, scheduled_time ASC").
		Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	week := make(WeekMealPlans)
	for _, plan := range plans {
		date := plan.Date.Format("2006-01-02")
		if week[date] == nil {
			week[date] = make(map[models.MealType][]models.MealPlan)
		}
		week[date][plan.MealType] = append(week[date][plan.MealType], plan)
	}

	return week, nil
}
