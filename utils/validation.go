package utils

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidatePositive checks if a number is positive
func ValidatePositive(value float64, fieldName string) error {
	if value <= 0 {
		return NewValidationError(fmt.Sprintf("%s must be positive", fieldName))
	}
	return nil
}

// ValidateNonNegative checks if a number is non-negative
func ValidateNonNegative(value float64, fieldName string) error {
	if value < 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be negative", fieldName))
	}
	return nil
}

// ValidateNotEmpty checks if a slice is not empty
func ValidateNotEmpty[T any](slice []T, fieldName string) error {
	if len(slice) == 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateMemberNames validates that all member names are not empty
func ValidateMemberNames(members []string) error {
	for i, member := range members {
		if strings.TrimSpace(member) == "" {
			return NewValidationError(fmt.Sprintf("member %d name cannot be empty", i+1))
		}
	}
	return nil
}

// ValidatePurchaseItem validates basic purchase item data
func ValidatePurchaseItem(itemID string, actualPrice, purchasedQuantity float64) error {
	if err := ValidateRequired(itemID, "item id"); err != nil {
		return err
	}
	if err := ValidateNonNegative(actualPrice, "item price"); err != nil {
		return err
	}
	return ValidatePositive(purchasedQuantity, "item quantity")
}
