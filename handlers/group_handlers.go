package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// CreateGroup handles the creation of a new group
func (a *API) CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := a.groupService.CreateGroup(request.Name, request.Member)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	response := models.CreateGroupResponse{
		GroupID: group.ID,
		Code:    group.Code,
	}

	utils.HandleSuccess(c, response)
}

// GetGroupByCode handles retrieving a group by its join code
func (a *API) GetGroupByCode(c *gin.Context) {
	var request models.GetGroupByCodeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := a.groupService.GetGroupByCode(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, group)
}

// JoinGroup adds a member to a group and notifies the others
func (a *API) JoinGroup(c *gin.Context) {
	var request models.JoinGroupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := a.groupService.JoinGroup(request.Code, request.Member)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	member := utils.NormalizeName(request.Member)
	a.registry.Broadcast(group.ID, models.NewEvent(models.EventMemberUpdate, gin.H{
		"memberId": member,
		"members":  group.Members,
	}), member)

	utils.HandleSuccess(c, group)
}
