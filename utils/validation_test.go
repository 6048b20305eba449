package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, ValidatePositive(0.5, "quantity"))
	assert.Error(t, ValidatePositive(0, "quantity"))
	assert.Error(t, ValidatePositive(-1, "quantity"))
}

func TestValidateNotEmpty(t *testing.T) {
	assert.NoError(t, ValidateNotEmpty([]string{"a"}, "items"))
	assert.Error(t, ValidateNotEmpty([]string{}, "items"))
	assert.Error(t, ValidateNotEmpty([]int(nil), "items"))
}

func TestValidateMemberNames(t *testing.T) {
	assert.NoError(t, ValidateMemberNames([]string{"ana", "bo"}))
	assert.NoError(t, ValidateMemberNames(nil))

	err := ValidateMemberNames([]string{"ana", "   "})
	assert.EqualError(t, err, "member 2 name cannot be empty")
}

func TestValidatePurchaseItem(t *testing.T) {
	assert.NoError(t, ValidatePurchaseItem("milk", 3.20, 2))

	assert.Error(t, ValidatePurchaseItem("", 3.20, 2))
	assert.Error(t, ValidatePurchaseItem("milk", -1, 2))
	assert.Error(t, ValidatePurchaseItem("milk", 3.20, 0))
}
