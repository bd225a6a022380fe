package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// RegisterCustomValidators installs the request binding validators used by
// the DTOs in this package. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("financialmodel", validateFinancialModel)
	}
}

func validateFinancialModel(fl validator.FieldLevel) bool {
	return domain.ValidFinancialModel(fl.Field().String())
}
