package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// ValidateAmount проверяет денежное значение: не отрицательное и конечное. nil допустим.
func ValidateAmount(field string, amount *float64) error {
	if amount == nil {
		return nil
	}
	if math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return apperror.Validation(fmt.Sprintf("%s must be a number", field))
	}
	if *amount < 0 {
		return apperror.Validation(fmt.Sprintf("%s cannot be negative", field))
	}
	return nil
}

// RoundAmount округляет сумму до копеек.
func RoundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
