package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadhlanhapp/groupcart-backend/models"
)

func TestGroupService_RequireMember(t *testing.T) {
	service := NewGroupService(nil)
	group := &models.Group{
		ID:      "g1",
		Code:    "ABC123",
		Members: []string{"ana", "bo"},
	}

	assert.NoError(t, service.RequireMember(group, "ana"))
	// member names are stored normalized, so lookups are case-insensitive
	assert.NoError(t, service.RequireMember(group, "  Ana "))

	assert.Error(t, service.RequireMember(group, "zed"))
	assert.Error(t, service.RequireMember(group, ""))
}
