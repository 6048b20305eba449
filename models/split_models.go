package models

// SplitRule describes one member's share of a purchase. Which fields are
// read depends on the split method: the quantity method reads
// ItemQuantities, the custom method reads Amount (preferred) or
// Percentage, and the equal method reads nothing. Validation rejects
// configurations where the populated fields do not reconcile before any
// settlement is computed.
type SplitRule struct {
	MemberID       string             `json:"memberId" binding:"required"`
	Percentage     *float64           `json:"percentage,omitempty"`
	Amount         *float64           `json:"amount,omitempty"`
	ItemQuantities map[string]float64 `json:"itemQuantities,omitempty"`
}

// Settlement represents a directed transfer obligation from one member to
// another, always emitted in pending state.
type Settlement struct {
	ID           string  `json:"id,omitempty"`
	PurchaseID   string  `json:"purchaseId,omitempty"`
	FromMemberID string  `json:"from"`
	ToMemberID   string  `json:"to"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status,omitempty"`
}

// SettlementRequest is the input to a settlement computation
type SettlementRequest struct {
	Purchase       Purchase    `json:"purchase" binding:"required"`
	SplitMethod    string      `json:"splitMethod" binding:"required,oneof=equal quantity custom"`
	SplitRules     []SplitRule `json:"splitRules,omitempty"`
	GroupMemberIDs []string    `json:"groupMemberIds" binding:"required"`
}

// SettlementResult is the output of a settlement computation. When
// ValidationErrors is non-empty, Balances and Settlements are empty —
// a failed validation never emits a partial result.
type SettlementResult struct {
	Balances         map[string]float64 `json:"balances"`
	Settlements      []Settlement       `json:"settlements"`
	ValidationErrors map[string]string  `json:"validationErrors,omitempty"`
	ItemsTotal       float64            `json:"itemsTotal,omitempty"`
	Warnings         map[string]string  `json:"warnings,omitempty"`
}
