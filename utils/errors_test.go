package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorsUseCanonicalMessages(t *testing.T) {
	for _, message := range []string{ErrGroupNotFound, ErrPurchaseNotFound, ErrSettlementNotFound} {
		err := NewNotFoundError(message)
		assert.Equal(t, http.StatusNotFound, err.Code)
		assert.Equal(t, message, err.Error())
	}
}

func TestBadRequestAndInternalErrorCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError(ErrInvalidRequest).Code)
	assert.Equal(t, http.StatusBadRequest, NewValidationError("name is required").Code)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError(ErrFailedToStore).Code)
}
