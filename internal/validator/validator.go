// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var scheduledTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("meal_type", validateMealType)
		_ = v.RegisterValidation("recurrence_frequency", validateRecurrenceFrequency)
		_ = v.RegisterValidation("summary_period", validateSummaryPeriod)
		_ = v.RegisterValidation("scheduled_time", validateScheduledTime)
	}
}

func validateMealType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "breakfast", "lunch", "dinner", "snack":
		return true
	}
	return false
}

func validateRecurrenceFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly":
		return true
	}
	return false
}

func validateSummaryPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "week", "month", "year":
		return true
	}
	return false
}

func validateScheduledTime(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return scheduledTimeRegex.MatchString(s)
}
