package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// RecordPurchase stores a purchase with its computed settlements and
// notifies the group. Split configurations that do not reconcile come
// back as 400 with field-level validation errors and nothing persisted.
func (a *API) RecordPurchase(c *gin.Context) {
	var request models.RecordPurchaseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	purchase, result, err := a.purchaseService.RecordPurchase(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if purchase == nil {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	a.registry.Broadcast(purchase.GroupID, models.NewEvent(models.EventPurchaseUpdate, gin.H{
		"purchase":    purchase,
		"settlements": result.Settlements,
	}), purchase.PurchasedBy)

	utils.HandleSuccess(c, gin.H{
		"purchase": purchase,
		"result":   result,
	})
}

// ReplaceSplit swaps a purchase's split configuration, recomputes its
// settlements and notifies the group
func (a *API) ReplaceSplit(c *gin.Context) {
	var request models.ReplaceSplitRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	purchase, result, err := a.purchaseService.ReplaceSplit(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if purchase == nil {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	a.registry.Broadcast(purchase.GroupID, models.NewEvent(models.EventPurchaseUpdate, gin.H{
		"purchase":    purchase,
		"settlements": result.Settlements,
	}), "")

	utils.HandleSuccess(c, gin.H{
		"purchase": purchase,
		"result":   result,
	})
}

// ListPurchases returns a group's purchases
func (a *API) ListPurchases(c *gin.Context) {
	var request models.ListPurchasesRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	purchases, err := a.purchaseService.ListPurchases(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"purchases": purchases})
}

// RemovePurchase deletes a purchase and notifies the group
func (a *API) RemovePurchase(c *gin.Context) {
	var request models.RemovePurchaseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := a.groupService.GetGroupByCode(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := a.purchaseService.RemovePurchase(request.Code, request.PurchaseID); err != nil {
		utils.HandleError(c, err)
		return
	}

	a.registry.Broadcast(group.ID, models.NewEvent(models.EventPurchaseUpdate, gin.H{
		"purchaseId": request.PurchaseID,
		"removed":    true,
	}), "")

	utils.HandleSuccess(c, gin.H{"removed": true})
}

// ComputeSettlements exposes the settlement engine as a dry run: nothing
// is persisted and nobody is notified
func (a *API) ComputeSettlements(c *gin.Context) {
	var request models.SettlementRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	result, err := a.engine.ComputeSettlements(&request.Purchase, request.SplitMethod, request.SplitRules, request.GroupMemberIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, result)
}

// ListSettlements returns a group's persisted settlement rows
func (a *API) ListSettlements(c *gin.Context) {
	var request models.GetGroupByCodeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	settlements, err := a.purchaseService.GroupSettlements(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"settlements": settlements})
}

// MarkSettlementCompleted acknowledges a payment and notifies the group
func (a *API) MarkSettlementCompleted(c *gin.Context) {
	var request models.MarkSettlementRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := a.groupService.GetGroupByCode(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	settlement, settlements, err := a.purchaseService.MarkSettlementCompleted(request.Code, request.SettlementID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	a.registry.Broadcast(group.ID, models.NewEvent(models.EventPurchaseUpdate, gin.H{
		"settlement": settlement,
	}), "")

	utils.HandleSuccess(c, gin.H{
		"settlement":  settlement,
		"settlements": settlements,
	})
}
