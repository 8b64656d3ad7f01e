// validation.go - Custom binding tags for request bodies

package handlers

import (
	"strings"
	"sync"

	"calorie-backend/models"
	"calorie-backend/nutrition"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators adds the "mealtype" and "portion" tags to gin's validator.
// Both accept any case and surrounding spaces; normalization happens later.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			m := models.MealType(strings.ToLower(strings.TrimSpace(fl.Field().String())))
			return m.Valid()
		})
		_ = v.RegisterValidation("portion", func(fl validator.FieldLevel) bool {
			_, err := nutrition.ParsePortion(fl.Field().String())
			return err == nil
		})
	})
}
