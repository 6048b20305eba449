// services/group_service.go
package services

import (
	"fmt"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/repository"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// GroupService handles group business logic
type GroupService struct {
	groupRepo *repository.GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup creates a group with its first member and a join code
func (s *GroupService) CreateGroup(name, member string) (*models.Group, error) {
	if err := utils.ValidateRequired(name, "name"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(member, "member"); err != nil {
		return nil, err
	}

	group := models.NewGroup(utils.GenerateID(), utils.GenerateCode(), name, utils.NormalizeName(member))

	if err := s.groupRepo.StoreGroup(group); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return group, nil
}

// GetGroupByCode retrieves a group by its join code
func (s *GroupService) GetGroupByCode(code string) (*models.Group, error) {
	group, err := s.groupRepo.GetGroupByCode(code)
	if err != nil {
		return nil, utils.NewNotFoundError(utils.ErrGroupNotFound)
	}
	return group, nil
}

// RequireMember rejects names that are not part of the group. The check
// is case-insensitive because member names are stored normalized.
func (s *GroupService) RequireMember(group *models.Group, member string) error {
	normalized := utils.NormalizeName(member)
	for _, m := range group.Members {
		if m == normalized {
			return nil
		}
	}
	return utils.NewBadRequestError(fmt.Sprintf("%s is not a member of this group", member))
}

// JoinGroup adds a member to a group by code; joining twice with the same
// name is a no-op
func (s *GroupService) JoinGroup(code, member string) (*models.Group, error) {
	if err := utils.ValidateRequired(member, "member"); err != nil {
		return nil, err
	}

	group, err := s.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeName(member)
	if err := s.groupRepo.AddMember(group.ID, normalized); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return s.GetGroupByCode(code)
}
