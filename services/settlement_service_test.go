package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestSettlementService_EqualSplit_EndToEnd(t *testing.T) {
	service := NewSettlementService()

	// 125.50 split equally among 4 members, fronted by a. Everyone's
	// share is exactly 31.375; a's own share cancels against the credit
	// for fronting the purchase.
	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 125.50,
		PurchasedBy: "a",
	}
	members := []string{"a", "b", "c", "d"}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, members)

	require.NoError(t, err)
	assert.Empty(t, result.ValidationErrors)

	assert.InDelta(t, 94.125, result.Balances["a"], 0.0001)
	assert.InDelta(t, -31.375, result.Balances["b"], 0.0001)
	assert.InDelta(t, -31.375, result.Balances["c"], 0.0001)
	assert.InDelta(t, -31.375, result.Balances["d"], 0.0001)

	require.Len(t, result.Settlements, 3)
	for i, from := range []string{"b", "c", "d"} {
		assert.Equal(t, from, result.Settlements[i].FromMemberID)
		assert.Equal(t, "a", result.Settlements[i].ToMemberID)
		assert.InDelta(t, 31.375, result.Settlements[i].Amount, 0.0001)
		assert.Equal(t, utils.SettlementPending, result.Settlements[i].Status)
	}
}

func TestSettlementService_EqualSplit_RemainderDistribution(t *testing.T) {
	service := NewSettlementService()

	// 1000 cents over 3 members does not divide evenly; the leftover
	// milli-unit lands on the first member in group order, so the shares
	// still sum back to 1000 exactly.
	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 1000,
		PurchasedBy: "a",
	}
	members := []string{"a", "b", "c"}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, members)

	require.NoError(t, err)

	// Shares recovered from balances: owed = credit - balance
	shareA := 1000 - result.Balances["a"]
	shareB := -result.Balances["b"]
	shareC := -result.Balances["c"]

	assert.InDelta(t, 333.334, shareA, 0.0001)
	assert.InDelta(t, 333.333, shareB, 0.0001)
	assert.InDelta(t, 333.333, shareC, 0.0001)
	assert.InDelta(t, 1000, shareA+shareB+shareC, 0.0001)
}

func TestSettlementService_QuantitySplit_MemberTotal(t *testing.T) {
	service := NewSettlementService()

	// 600 over 6 units and 900 over 3 units; a takes 2 and 1 units,
	// so a owes 600/6*2 + 900/3*1 = 500
	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 1500,
		PurchasedBy: "b",
		Items: []models.PurchaseItem{
			{ItemID: "milk", PurchasedQuantity: 6, ActualPrice: 600},
			{ItemID: "coffee", PurchasedQuantity: 3, ActualPrice: 900},
		},
	}
	members := []string{"a", "b"}
	rules := []models.SplitRule{
		{MemberID: "a", ItemQuantities: map[string]float64{"milk": 2, "coffee": 1}},
		{MemberID: "b", ItemQuantities: map[string]float64{"milk": 4, "coffee": 2}},
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodQuantity, rules, members)

	require.NoError(t, err)
	assert.Empty(t, result.ValidationErrors)

	assert.InDelta(t, -500, result.Balances["a"], 0.0001)
	assert.InDelta(t, 500, result.Balances["b"], 0.0001)

	require.Len(t, result.Settlements, 1)
	assert.Equal(t, "a", result.Settlements[0].FromMemberID)
	assert.Equal(t, "b", result.Settlements[0].ToMemberID)
	assert.InDelta(t, 500, result.Settlements[0].Amount, 0.0001)
}

func TestSettlementService_QuantitySplit_UnaccountedQuantity(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 600,
		PurchasedBy: "a",
		Items: []models.PurchaseItem{
			{ItemID: "milk", PurchasedQuantity: 6, ActualPrice: 600},
		},
	}
	members := []string{"a", "b"}
	rules := []models.SplitRule{
		{MemberID: "a", ItemQuantities: map[string]float64{"milk": 2}},
		{MemberID: "b", ItemQuantities: map[string]float64{"milk": 1}},
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodQuantity, rules, members)

	require.NoError(t, err)
	assert.Contains(t, result.ValidationErrors, "milk")
	assert.Empty(t, result.Settlements)
	assert.Empty(t, result.Balances)
}

func TestSettlementService_CustomSplit_PercentagesShort(t *testing.T) {
	service := NewSettlementService()

	// 30+30+30 leaves 10% of the purchase unassigned: rejected, and no
	// settlements are emitted
	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 90,
		PurchasedBy: "a",
	}
	members := []string{"a", "b", "c"}
	rules := []models.SplitRule{
		{MemberID: "a", Percentage: floatPtr(30)},
		{MemberID: "b", Percentage: floatPtr(30)},
		{MemberID: "c", Percentage: floatPtr(30)},
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodCustom, rules, members)

	require.NoError(t, err)
	assert.Contains(t, result.ValidationErrors, "split")
	assert.Empty(t, result.Settlements)
}

func TestSettlementService_CustomSplit_Amounts(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 100,
		PurchasedBy: "a",
	}
	members := []string{"a", "b", "c"}
	rules := []models.SplitRule{
		{MemberID: "a", Amount: floatPtr(50)},
		{MemberID: "b", Amount: floatPtr(30)},
		{MemberID: "c", Amount: floatPtr(20)},
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodCustom, rules, members)

	require.NoError(t, err)
	assert.Empty(t, result.ValidationErrors)

	require.Len(t, result.Settlements, 2)
	assert.Equal(t, "b", result.Settlements[0].FromMemberID)
	assert.InDelta(t, 30, result.Settlements[0].Amount, 0.0001)
	assert.Equal(t, "c", result.Settlements[1].FromMemberID)
	assert.InDelta(t, 20, result.Settlements[1].Amount, 0.0001)
}

func TestSettlementService_CustomSplit_AmountWinsOverPercentage(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 100,
		PurchasedBy: "a",
	}
	members := []string{"a", "b"}
	rules := []models.SplitRule{
		{MemberID: "a", Amount: floatPtr(70)},
		// Percentage is stale UI state; the explicit amount wins
		{MemberID: "b", Amount: floatPtr(30), Percentage: floatPtr(90)},
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodCustom, rules, members)

	require.NoError(t, err)
	assert.Empty(t, result.ValidationErrors)
	assert.InDelta(t, -30, result.Balances["b"], 0.0001)
}

func TestSettlementService_BalanceAndSettlementConservation(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 247.13,
		PurchasedBy: "c",
	}
	members := []string{"a", "b", "c", "d", "e"}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, members)
	require.NoError(t, err)

	var balanceSum float64
	for _, balance := range result.Balances {
		balanceSum += balance
	}
	assert.InDelta(t, 0, balanceSum, 0.01, "balances must sum to zero")

	// Applying every settlement reconciles all balances to zero
	applied := make(map[string]float64, len(result.Balances))
	for member, balance := range result.Balances {
		applied[member] = balance
	}
	for _, settlement := range result.Settlements {
		assert.Greater(t, settlement.Amount, 0.0)
		applied[settlement.FromMemberID] += settlement.Amount
		applied[settlement.ToMemberID] -= settlement.Amount
	}
	for member, balance := range applied {
		assert.InDelta(t, 0, balance, 0.01, "member %s should be settled", member)
	}
}

func TestSettlementService_Determinism(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 333.33,
		PurchasedBy: "b",
		Items: []models.PurchaseItem{
			{ItemID: "bread", PurchasedQuantity: 3, ActualPrice: 111.11},
			{ItemID: "eggs", PurchasedQuantity: 2, ActualPrice: 222.22},
		},
	}
	members := []string{"a", "b", "c"}
	rules := []models.SplitRule{
		{MemberID: "a", ItemQuantities: map[string]float64{"bread": 1, "eggs": 1}},
		{MemberID: "b", ItemQuantities: map[string]float64{"bread": 1}},
		{MemberID: "c", ItemQuantities: map[string]float64{"bread": 1, "eggs": 1}},
	}

	first, err := service.ComputeSettlements(purchase, utils.SplitMethodQuantity, rules, members)
	require.NoError(t, err)
	second, err := service.ComputeSettlements(purchase, utils.SplitMethodQuantity, rules, members)
	require.NoError(t, err)

	assert.Equal(t, first.Balances, second.Balances)
	assert.Equal(t, first.Settlements, second.Settlements)
}

func TestSettlementService_PurchaserMustBeMember(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 50,
		PurchasedBy: "stranger",
	}

	_, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, []string{"a", "b"})

	assert.Error(t, err)
}

func TestSettlementService_NegativeTotalRejected(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: -10,
		PurchasedBy: "a",
	}

	_, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, []string{"a"})

	assert.Error(t, err)
}

func TestSettlementService_BlankMemberNameRejected(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 50,
		PurchasedBy: "a",
	}

	_, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, []string{"a", "  "})

	assert.Error(t, err)
}

func TestSettlementService_QuantitySplitRequiresItems(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 50,
		PurchasedBy: "a",
	}

	_, err := service.ComputeSettlements(purchase, utils.SplitMethodQuantity, nil, []string{"a", "b"})

	assert.Error(t, err)
}

func TestSettlementService_EmptyMembersIsVacuous(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 50,
		PurchasedBy: "a",
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Settlements)
	assert.Empty(t, result.Balances)
	assert.Empty(t, result.ValidationErrors)
}

func TestSettlementService_ItemTotalMismatchSurfaced(t *testing.T) {
	service := NewSettlementService()

	// The receipt total is authoritative; the item lines disagreeing with
	// it is flagged but never reconciled
	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 100,
		PurchasedBy: "a",
		Items: []models.PurchaseItem{
			{ItemID: "milk", PurchasedQuantity: 1, ActualPrice: 40},
			{ItemID: "bread", PurchasedQuantity: 1, ActualPrice: 50},
		},
	}
	members := []string{"a", "b"}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, members)

	require.NoError(t, err)
	assert.InDelta(t, 90, result.ItemsTotal, 0.0001)
	assert.Contains(t, result.Warnings, "totalAmount")
	assert.NotEmpty(t, result.Settlements, "a flagged mismatch still settles against the total")
}

func TestSettlementService_SingleMemberGroup(t *testing.T) {
	service := NewSettlementService()

	purchase := &models.Purchase{
		ID:          "p1",
		TotalAmount: 42,
		PurchasedBy: "a",
	}

	result, err := service.ComputeSettlements(purchase, utils.SplitMethodEqual, nil, []string{"a"})

	require.NoError(t, err)
	assert.InDelta(t, 0, result.Balances["a"], 0.0001)
	assert.Empty(t, result.Settlements, "paying for yourself produces no transfers")
}
