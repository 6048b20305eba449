// models/models.go
package models

import "time"

// Group represents a household or shopping group sharing purchases
type Group struct {
	ID           string   `json:"_id"`
	CreationTime int64    `json:"_creationTime"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Members      []string `json:"members"`
}

// Purchase is an immutable record of money spent by one member on behalf
// of the group. TotalAmount is authoritative; it may disagree with the sum
// of item prices and the engine only surfaces that, it never reconciles it.
type Purchase struct {
	ID           string         `json:"_id"`
	CreationTime int64          `json:"_creationTime"`
	GroupID      string         `json:"groupId"`
	Description  string         `json:"description"`
	TotalAmount  float64        `json:"totalAmount"`
	PurchasedBy  string         `json:"purchasedBy"`
	SplitMethod  string         `json:"splitMethod"`
	Items        []PurchaseItem `json:"items,omitempty"`
}

// PurchaseItem is one line on a purchase. ActualPrice is the line's total
// price, not a unit price.
type PurchaseItem struct {
	ItemID            string  `json:"itemId"`
	Description       string  `json:"description,omitempty"`
	PurchasedQuantity float64 `json:"purchasedQuantity"`
	ActualPrice       float64 `json:"actualPrice"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateGroupRequest request model
type CreateGroupRequest struct {
	Name   string `json:"name" binding:"required"`
	Member string `json:"member" binding:"required"`
}

// GetGroupByCodeRequest request model
type GetGroupByCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// JoinGroupRequest request model
type JoinGroupRequest struct {
	Code   string `json:"code" binding:"required"`
	Member string `json:"member" binding:"required"`
}

// RecordPurchaseRequest request model
type RecordPurchaseRequest struct {
	Code        string         `json:"code" binding:"required"`
	Description string         `json:"description" binding:"required"`
	TotalAmount float64        `json:"totalAmount" binding:"min=0"`
	PurchasedBy string         `json:"purchasedBy" binding:"required"`
	SplitMethod string         `json:"splitMethod" binding:"required,oneof=equal quantity custom"`
	Items       []PurchaseItem `json:"items,omitempty"`
	SplitRules  []SplitRule    `json:"splitRules,omitempty"`
}

// ListPurchasesRequest request model
type ListPurchasesRequest struct {
	Code string `json:"code" binding:"required"`
}

// RemovePurchaseRequest request model
type RemovePurchaseRequest struct {
	Code       string `json:"code" binding:"required"`
	PurchaseID string `json:"purchaseId" binding:"required"`
}

// ReplaceSplitRequest replaces the full split configuration of a purchase
// atomically; there is no partial-update state.
type ReplaceSplitRequest struct {
	Code        string      `json:"code" binding:"required"`
	PurchaseID  string      `json:"purchaseId" binding:"required"`
	SplitMethod string      `json:"splitMethod" binding:"required,oneof=equal quantity custom"`
	SplitRules  []SplitRule `json:"splitRules,omitempty"`
}

// MarkSettlementRequest request model
type MarkSettlementRequest struct {
	Code         string `json:"code" binding:"required"`
	SettlementID string `json:"settlementId" binding:"required"`
}

// CreateGroupResponse response model
type CreateGroupResponse struct {
	GroupID string `json:"groupId"`
	Code    string `json:"code"`
}

// NewGroup creates a new Group instance
func NewGroup(id, code, name, member string) *Group {
	return &Group{
		ID:           id,
		CreationTime: time.Now().UnixMilli(),
		Code:         code,
		Name:         name,
		Members:      []string{member},
	}
}

// NewPurchase creates a new Purchase instance
func NewPurchase(id, groupID, description string, totalAmount float64, purchasedBy, splitMethod string, items []PurchaseItem) *Purchase {
	return &Purchase{
		ID:           id,
		CreationTime: time.Now().UnixMilli(),
		GroupID:      groupID,
		Description:  description,
		TotalAmount:  totalAmount,
		PurchasedBy:  purchasedBy,
		SplitMethod:  splitMethod,
		Items:        items,
	}
}
