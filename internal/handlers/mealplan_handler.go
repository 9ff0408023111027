package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
	"feastly/internal/pagination"
	"feastly/internal/services"
)

// MealPlanHandler handles meal-plan requests.
type MealPlanHandler struct {
	mealPlanService services.MealPlanServicer
	auditService    services.AuditServicer
}

// NewMealPlanHandler creates a new MealPlanHandler.
func NewMealPlanHandler(mealPlanService services.MealPlanServicer, auditService services.AuditServicer) *MealPlanHandler {
	return &MealPlanHandler{mealPlanService: mealPlanService, auditService: auditService}
}

// CreateMealPlanRequest represents the request payload for creating a meal plan.
type CreateMealPlanRequest struct {
	Date          time.Time       `json:"date" binding:"required"`
	MealType      models.MealType `json:"meal_type" binding:"required,meal_type"`
	FoodName      string          `json:"food_name" binding:"required,min=1,max=100"`
	Restaurant    string          `json:"restaurant" binding:"max=100"`
	Price         int64           `json:"price" binding:"gte=0"`
	ImageURL      string          `json:"image_url" binding:"omitempty,url,max=500"`
	ScheduledTime string          `json:"scheduled_time" binding:"scheduled_time"`
	IsRecurring   bool            `json:"is_recurring"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// UpdateMealPlanRequest represents the request payload for updating a meal plan.
type UpdateMealPlanRequest struct {
	Date          *time.Time       `json:"date"`
	MealType      *models.MealType `json:"meal_type" binding:"omitempty,meal_type"`
	FoodName      *string          `json:"food_name" binding:"omitempty,min=1,max=100"`
	Restaurant    *string          `json:"restaurant" binding:"omitempty,max=100"`
	Price         *int64           `json:"price" binding:"omitempty,gte=0"`
	ImageURL      *string          `json:"image_url" binding:"omitempty,url,max=500"`
	ScheduledTime *string          `json:"scheduled_time" binding:"omitempty,scheduled_time"`
	IsRecurring   *bool            `json:"is_recurring"`
	Notes         *string          `json:"notes" binding:"omitempty,max=500"`
}

// CreateRecurringMealPlansRequest represents the request payload for generating
// a recurring meal plan series.
type CreateRecurringMealPlansRequest struct {
	CreateMealPlanRequest
	Frequency   models.RecurrenceFrequency `json:"frequency" binding:"required,recurrence_frequency"`
	DaysOfWeek  []int                      `json:"days_of_week" binding:"omitempty,dive,gte=0,lte=6"`
	Occurrences int                        `json:"occurrences" binding:"required,gte=1,lte=365"`
}

func (r *CreateMealPlanRequest) toInput() services.MealPlanInput {
	return services.MealPlanInput{
		Date:          r.Date,
		MealType:      r.MealType,
		FoodName:      r.FoodName,
		Restaurant:    r.Restaurant,
		Price:         r.Price,
		ImageURL:      r.ImageURL,
		ScheduledTime: r.ScheduledTime,
		IsRecurring:   r.IsRecurring,
		Notes:         r.Notes,
	}
}

// CreateMealPlan handles the creation of a single meal plan.
// @Summary     Create a meal plan
// @Description Schedule a meal for a specific date and meal type
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMealPlanRequest true "Meal plan details"
// @Success     201 {object} models.MealPlan "Meal plan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans [post]
func (h *MealPlanHandler) CreateMealPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mealPlan, err := h.mealPlanService.CreateMealPlan(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_MEAL_PLAN", "meal_plan", mealPlan.ID, c.ClientIP(),
		map[string]interface{}{"food_name": req.FoodName, "meal_type": req.MealType})

	c.JSON(http.StatusCreated, gin.H{"meal_plan": mealPlan})
}

// CreateRecurringMealPlans handles generating a recurring meal plan series.
// @Summary     Create recurring meal plans
// @Description Generate a series of meal plans from a base date and recurrence pattern
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringMealPlansRequest true "Recurring meal plan details"
// @Success     201 {array} models.MealPlan "Generated meal plans"
// @Failure     400 {object} ErrorResponse "Invalid input or unsatisfiable pattern"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans/recurring [post]
func (h *MealPlanHandler) CreateRecurringMealPlans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringMealPlansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	days := make([]time.Weekday, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		days = append(days, time.Weekday(d))
	}

	pattern := services.RecurrencePattern{
		Frequency:   req.Frequency,
		DaysOfWeek:  days,
		Occurrences: req.Occurrences,
	}

	plans, err := h.mealPlanService.CreateRecurringMealPlans(userID, req.toInput(), pattern)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECURRING_MEAL_PLANS", "meal_plan", plans[0].ID, c.ClientIP(),
		map[string]interface{}{"food_name": req.FoodName, "frequency": req.Frequency, "count": len(plans)})

	c.JSON(http.StatusCreated, gin.H{"meal_plans": plans})
}

// GetMealPlans handles listing meal plans for the authenticated user.
// @Summary     Get meal plans
// @Description Get a paginated list of meal plans, optionally limited to a date range
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "Start date (RFC 3339)"
// @Param       to        query string false "End date (RFC 3339)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.MealPlan] "Paginated meal plans"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans [get]
func (h *MealPlanHandler) GetMealPlans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var fromDate, toDate *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be an RFC 3339 timestamp"))
			return
		}
		fromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be an RFC 3339 timestamp"))
			return
		}
		toDate = &t
	}

	result, err := h.mealPlanService.GetUserMealPlans(userID, page, fromDate, toDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMealPlan handles retrieving a specific meal plan.
// @Summary     Get meal plan by ID
// @Description Get a specific meal plan by ID
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meal plan ID"
// @Success     200 {object} models.MealPlan "Meal plan details"
// @Failure     400 {object} ErrorResponse "Invalid meal plan ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meal plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans/{id} [get]
func (h *MealPlanHandler) GetMealPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlan, err := h.mealPlanService.GetMealPlanByID(userID, mealPlanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plan": mealPlan})
}

// UpdateMealPlan handles updating an existing meal plan.
// @Summary     Update meal plan
// @Description Partially update an existing meal plan
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Meal plan ID"
// @Param       request body UpdateMealPlanRequest true "Updated meal plan details"
// @Success     200 {object} models.MealPlan "Updated meal plan"
// @Failure     400 {object} ErrorResponse "Invalid input or meal plan ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meal plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans/{id} [put]
func (h *MealPlanHandler) UpdateMealPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mealPlan, err := h.mealPlanService.UpdateMealPlan(userID, mealPlanID, services.MealPlanUpdateFields{
		Date:          req.Date,
		MealType:      req.MealType,
		FoodName:      req.FoodName,
		Restaurant:    req.Restaurant,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		ScheduledTime: req.ScheduledTime,
		IsRecurring:   req.IsRecurring,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MEAL_PLAN", "meal_plan", mealPlanID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"meal_plan": mealPlan})
}

// MarkOrdered handles marking a meal plan as ordered.
// @Summary     Mark meal plan ordered
// @Description Mark a meal plan as ordered; this cannot be undone
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meal plan ID"
// @Success     200 {object} models.MealPlan "Updated meal plan"
// @Failure     400 {object} ErrorResponse "Invalid meal plan ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meal plan not found"
// @Failure     409 {object} ErrorResponse "Meal plan already ordered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans/{id}/order [put]
func (h *MealPlanHandler) MarkOrdered(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlan, err := h.mealPlanService.MarkOrdered(userID, mealPlanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ORDER_MEAL_PLAN", "meal_plan", mealPlanID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"meal_plan": mealPlan})
}

// DeleteMealPlan handles deleting a meal plan.
// @Summary     Delete meal plan
// @Description Delete a meal plan
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meal plan ID"
// @Success     200 {object} MessageResponse "Meal plan deleted"
// @Failure     400 {object} ErrorResponse "Invalid meal plan ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meal plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meal-plans/{id} [delete]
func (h *MealPlanHandler) DeleteMealPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	mealPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.mealPlanService.DeleteMealPlan(userID, mealPlanID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_MEAL_PLAN", "meal_plan", mealPlanID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Meal plan deleted successfully"})
}

// GetWeekMealPlans handles retrieving the current week's meal plans.
// @Summary     Get current week's meal plans
// @Description Get the current week's meal plans grouped by date and meal type
// @Tags        meal-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WeekMealPlans "Week meal plans grouped by date and meal type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /week-plans [get]
func (h *MealPlanHandler) GetWeekMealPlans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	week, err := h.mealPlanService.GetWeekMealPlans(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"week": week})
}
