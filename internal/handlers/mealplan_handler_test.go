package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "feastly/internal/errors"
	"feastly/internal/models"
	"feastly/internal/pagination"
	"feastly/internal/services"
)

// --- mock meal plan service ---

type mockMealPlanService struct {
	createMealPlanFn           func(userID uint, in services.MealPlanInput) (*models.MealPlan, error)
	createRecurringMealPlansFn func(userID uint, in services.MealPlanInput, pattern services.RecurrencePattern) ([]models.MealPlan, error)
	getUserMealPlansFn         func(userID uint, page pagination.PageRequest, fromDate, toDate *time.Time) (*pagination.PageResponse[models.MealPlan], error)
	getMealPlanByIDFn          func(userID, mealPlanID uint) (*models.MealPlan, error)
	updateMealPlanFn           func(userID, mealPlanID uint, fields services.MealPlanUpdateFields) (*models.MealPlan, error)
	markOrderedFn              func(userID, mealPlanID uint) (*models.MealPlan, error)
	deleteMealPlanFn           func(userID, mealPlanID uint) error
	getWeekMealPlansFn         func(userID uint, now time.Time) (services.WeekMealPlans, error)
}

func (m *mockMealPlanService) CreateMealPlan(userID uint, in services.MealPlanInput) (*models.MealPlan, error) {
	if m.createMealPlanFn != nil {
		return m.createMealPlanFn(userID, in)
	}
	return &models.MealPlan{}, nil
}

func (m *mockMealPlanService) CreateRecurringMealPlans(userID uint, in services.MealPlanInput, pattern services.RecurrencePattern) ([]models.MealPlan, error) {
	if m.createRecurringMealPlansFn != nil {
		return m.createRecurringMealPlansFn(userID, in, pattern)
	}
	return []models.MealPlan{{}}, nil
}

func (m *mockMealPlanService) GetUserMealPlans(userID uint, page pagination.PageRequest, fromDate, toDate *time.Time) (*pagination.PageResponse[models.MealPlan], error) {
	if m.getUserMealPlansFn != nil {
		return m.getUserMealPlansFn(userID, page, fromDate, toDate)
	}
	resp := pagination.NewPageResponse([]models.MealPlan{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockMealPlanService) GetMealPlanByID(userID, mealPlanID uint) (*models.MealPlan, error) {
	if m.getMealPlanByIDFn != nil {
		return m.getMealPlanByIDFn(userID, mealPlanID)
	}
	return &models.MealPlan{}, nil
}

func (m *mockMealPlanService) UpdateMealPlan(userID, mealPlanID uint, fields services.MealPlanUpdateFields) (*models.MealPlan, error) {
	if m.updateMealPlanFn != nil {
		return m.updateMealPlanFn(userID, mealPlanID, fields)
	}
	return &models.MealPlan{}, nil
}

func (m *mockMealPlanService) MarkOrdered(userID, mealPlanID uint) (*models.MealPlan, error) {
	if m.markOrderedFn != nil {
		return m.markOrderedFn(userID, mealPlanID)
	}
	return &models.MealPlan{}, nil
}

func (m *mockMealPlanService) DeleteMealPlan(userID, mealPlanID uint) error {
	if m.deleteMealPlanFn != nil {
		return m.deleteMealPlanFn(userID, mealPlanID)
	}
	return nil
}

func (m *mockMealPlanService) GetWeekMealPlans(userID uint, now time.Time) (services.WeekMealPlans, error) {
	if m.getWeekMealPlansFn != nil {
		return m.getWeekMealPlansFn(userID, now)
	}
	return services.WeekMealPlans{}, nil
}

var _ services.MealPlanServicer = (*mockMealPlanService)(nil)

func setupMealPlanRouter(handler *MealPlanHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/meal-plans", handler.CreateMealPlan)
	auth.POST("/meal-plans/recurring", handler.CreateRecurringMealPlans)
	auth.GET("/meal-plans", handler.GetMealPlans)
	auth.GET("/meal-plans/:id", handler.GetMealPlan)
	auth.PUT("/meal-plans/:id", handler.UpdateMealPlan)
	auth.PUT("/meal-plans/:id/order", handler.MarkOrdered)
	auth.DELETE("/meal-plans/:id", handler.DeleteMealPlan)
	auth.GET("/week-plans", handler.GetWeekMealPlans)
	return r
}

func TestMealPlanHandler_CreateMealPlan(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockMealPlanService{
			createMealPlanFn: func(_ uint, in services.MealPlanInput) (*models.MealPlan, error) {
				return &models.MealPlan{
					Base:     models.Base{ID: 1},
					UserID:   1,
					Date:     in.Date,
					MealType: in.MealType,
					FoodName: in.FoodName,
					Price:    in.Price,
				}, nil
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans",
			`{"date":"2025-06-10T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"scheduled_time":"12:30"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		plan := result["meal_plan"].(map[string]interface{})
		if plan["food_name"] != "Pad Thai" {
			t.Errorf("expected Pad Thai, got %v", plan["food_name"])
		}
	})

	t.Run("returns 400 on invalid meal type", func(t *testing.T) {
		handler := NewMealPlanHandler(&mockMealPlanService{}, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans",
			`{"date":"2025-06-10T00:00:00Z","meal_type":"brunch","food_name":"Eggs","price":900}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad scheduled time", func(t *testing.T) {
		handler := NewMealPlanHandler(&mockMealPlanService{}, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans",
			`{"date":"2025-06-10T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"scheduled_time":"25:99"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing food name", func(t *testing.T) {
		handler := NewMealPlanHandler(&mockMealPlanService{}, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans",
			`{"date":"2025-06-10T00:00:00Z","meal_type":"lunch","price":1450}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMealPlanHandler_CreateRecurringMealPlans(t *testing.T) {
	t.Run("returns 201 with generated series", func(t *testing.T) {
		var captured services.RecurrencePattern
		svc := &mockMealPlanService{
			createRecurringMealPlansFn: func(_ uint, in services.MealPlanInput, pattern services.RecurrencePattern) ([]models.MealPlan, error) {
				captured = pattern
				plans := make([]models.MealPlan, pattern.Occurrences)
				for i := range plans {
					plans[i] = models.MealPlan{
						Base:        models.Base{ID: uint(i + 1)},
						FoodName:    in.FoodName,
						IsRecurring: true,
					}
				}
				return plans, nil
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans/recurring",
			`{"date":"2025-06-02T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"frequency":"weekly","days_of_week":[1],"occurrences":4}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		plans := result["meal_plans"].([]interface{})
		if len(plans) != 4 {
			t.Errorf("expected 4 plans, got %d", len(plans))
		}
		if captured.Frequency != models.FrequencyWeekly {
			t.Errorf("expected weekly frequency, got %s", captured.Frequency)
		}
		if len(captured.DaysOfWeek) != 1 || captured.DaysOfWeek[0] != time.Monday {
			t.Errorf("expected Monday allow-list, got %v", captured.DaysOfWeek)
		}
	})

	t.Run("returns 400 on invalid frequency", func(t *testing.T) {
		handler := NewMealPlanHandler(&mockMealPlanService{}, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans/recurring",
			`{"date":"2025-06-02T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"frequency":"monthly","occurrences":4}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unsatisfiable pattern", func(t *testing.T) {
		svc := &mockMealPlanService{
			createRecurringMealPlansFn: func(_ uint, _ services.MealPlanInput, _ services.RecurrencePattern) ([]models.MealPlan, error) {
				return nil, apperrors.ErrNoRecurringDates
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans/recurring",
			`{"date":"2025-06-02T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"frequency":"weekly","days_of_week":[5],"occurrences":4}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_RECURRING_DATES")
	})

	t.Run("returns 400 on excessive occurrences", func(t *testing.T) {
		handler := NewMealPlanHandler(&mockMealPlanService{}, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "POST", "/meal-plans/recurring",
			`{"date":"2025-06-02T00:00:00Z","meal_type":"lunch","food_name":"Pad Thai","price":1450,"frequency":"daily","occurrences":1000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMealPlanHandler_MarkOrdered(t *testing.T) {
	t.Run("returns ordered plan", func(t *testing.T) {
		svc := &mockMealPlanService{
			markOrderedFn: func(_, mealPlanID uint) (*models.MealPlan, error) {
				return &models.MealPlan{Base: models.Base{ID: mealPlanID}, IsOrdered: true}, nil
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "PUT", "/meal-plans/5/order", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		plan := result["meal_plan"].(map[string]interface{})
		if plan["is_ordered"] != true {
			t.Error("expected plan to be marked ordered")
		}
	})

	t.Run("returns 409 when already ordered", func(t *testing.T) {
		svc := &mockMealPlanService{
			markOrderedFn: func(_, _ uint) (*models.MealPlan, error) {
				return nil, apperrors.ErrAlreadyOrdered
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "PUT", "/meal-plans/5/order", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALREADY_ORDERED")
	})
}

func TestMealPlanHandler_GetWeekMealPlans(t *testing.T) {
	t.Run("returns grouped week", func(t *testing.T) {
		svc := &mockMealPlanService{
			getWeekMealPlansFn: func(_ uint, _ time.Time) (services.WeekMealPlans, error) {
				return services.WeekMealPlans{
					"2025-06-11": {
						models.MealTypeLunch: {{Base: models.Base{ID: 1}, FoodName: "Pad Thai"}},
					},
				}, nil
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "GET", "/week-plans", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		week := result["week"].(map[string]interface{})
		day := week["2025-06-11"].(map[string]interface{})
		lunches := day["lunch"].([]interface{})
		if len(lunches) != 1 {
			t.Errorf("expected 1 lunch, got %d", len(lunches))
		}
	})
}

func TestMealPlanHandler_UpdateMealPlan(t *testing.T) {
	t.Run("passes partial fields to service", func(t *testing.T) {
		var captured services.MealPlanUpdateFields
		svc := &mockMealPlanService{
			updateMealPlanFn: func(_, _ uint, fields services.MealPlanUpdateFields) (*models.MealPlan, error) {
				captured = fields
				return &models.MealPlan{Base: models.Base{ID: 5}}, nil
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "PUT", "/meal-plans/5", `{"notes":"extra spicy"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Notes == nil || *captured.Notes != "extra spicy" {
			t.Error("expected notes field to be passed through")
		}
		if captured.FoodName != nil {
			t.Error("expected absent food name to stay nil")
		}
	})
}

func TestMealPlanHandler_DeleteMealPlan(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockMealPlanService{
			deleteMealPlanFn: func(_, _ uint) error {
				return apperrors.ErrMealPlanNotFound
			},
		}
		handler := NewMealPlanHandler(svc, &mockAuditService{})
		r := setupMealPlanRouter(handler)

		rec := doRequest(r, "DELETE", "/meal-plans/5", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
