package services

import (
	"fmt"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// SettlementService computes member balances and pairwise transfers for a
// recorded purchase. It is a pure computation: no I/O, no shared state,
// safe to call from any request handler.
type SettlementService struct{}

// NewSettlementService creates a new settlement service
func NewSettlementService() *SettlementService {
	return &SettlementService{}
}

// ComputeSettlements derives each member's balance from the purchase and
// split configuration and nets the result into a list of pending
// transfers. Split configurations that do not reconcile populate
// ValidationErrors and suppress all output; malformed input (purchaser
// not in the member list, negative amounts) is a caller error and comes
// back as a typed error instead. Identical inputs always produce an
// identical settlement list.
func (s *SettlementService) ComputeSettlements(purchase *models.Purchase, splitMethod string, rules []models.SplitRule, memberIDs []string) (*models.SettlementResult, error) {
	result := &models.SettlementResult{
		Balances:    make(map[string]float64),
		Settlements: []models.Settlement{},
	}

	// Vacuous case: nothing to split, nothing to report
	if len(memberIDs) == 0 {
		return result, nil
	}

	if err := s.validateContract(purchase, rules, memberIDs); err != nil {
		return nil, err
	}

	s.surfaceItemTotal(purchase, result)

	var shares map[string]float64
	var validationErrors map[string]string

	switch splitMethod {
	case utils.SplitMethodEqual:
		shares = s.equalShares(purchase.TotalAmount, memberIDs)
	case utils.SplitMethodQuantity:
		// the quantity method has nothing to attribute without item lines
		if err := utils.ValidateNotEmpty(purchase.Items, "items"); err != nil {
			return nil, err
		}
		shares, validationErrors = s.quantityShares(purchase, rules, memberIDs)
	case utils.SplitMethodCustom:
		shares, validationErrors = s.customShares(purchase.TotalAmount, rules, memberIDs)
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("unknown split method %q", splitMethod))
	}

	if len(validationErrors) > 0 {
		result.ValidationErrors = validationErrors
		return result, nil
	}

	// Every member owes their share; the purchaser is credited the full
	// total once for fronting the money, on top of owing their own share.
	balances := make(map[string]float64, len(memberIDs))
	for _, memberID := range memberIDs {
		balances[memberID] = 0
	}
	for memberID, share := range shares {
		balances[memberID] -= share
	}
	balances[purchase.PurchasedBy] += purchase.TotalAmount

	for memberID, balance := range balances {
		result.Balances[memberID] = utils.RoundMilli(balance)
	}

	result.Settlements = s.netSettlements(purchase.ID, result.Balances, memberIDs)

	return result, nil
}

// validateContract rejects malformed input before any balance math runs
func (s *SettlementService) validateContract(purchase *models.Purchase, rules []models.SplitRule, memberIDs []string) error {
	if err := utils.ValidateNonNegative(purchase.TotalAmount, "totalAmount"); err != nil {
		return err
	}
	if err := utils.ValidateRequired(purchase.PurchasedBy, "purchasedBy"); err != nil {
		return err
	}

	if err := utils.ValidateMemberNames(memberIDs); err != nil {
		return err
	}
	members := make(map[string]bool, len(memberIDs))
	for _, memberID := range memberIDs {
		members[memberID] = true
	}
	if !members[purchase.PurchasedBy] {
		return utils.NewBadRequestError(fmt.Sprintf("purchaser %q is not a group member", purchase.PurchasedBy))
	}

	for _, item := range purchase.Items {
		if err := utils.ValidatePurchaseItem(item.ItemID, item.ActualPrice, item.PurchasedQuantity); err != nil {
			return err
		}
	}

	for _, rule := range rules {
		if !members[rule.MemberID] {
			return utils.NewBadRequestError(fmt.Sprintf("split rule references unknown member %q", rule.MemberID))
		}
		if rule.Amount != nil && *rule.Amount < 0 {
			return utils.NewBadRequestError("split amount cannot be negative")
		}
		if rule.Percentage != nil && (*rule.Percentage < 0 || *rule.Percentage > 100) {
			return utils.NewBadRequestError("split percentage must be between 0 and 100")
		}
		for itemID, quantity := range rule.ItemQuantities {
			if quantity < 0 {
				return utils.NewBadRequestError(fmt.Sprintf("item %q quantity cannot be negative", itemID))
			}
		}
	}

	return nil
}

// surfaceItemTotal reports the sum of item prices next to the
// authoritative total. The two may legitimately disagree (the receipt
// total wins); the engine flags the discrepancy and moves on.
func (s *SettlementService) surfaceItemTotal(purchase *models.Purchase, result *models.SettlementResult) {
	if len(purchase.Items) == 0 {
		return
	}

	var itemsTotal float64
	for _, item := range purchase.Items {
		itemsTotal += item.ActualPrice
	}
	result.ItemsTotal = utils.Round(itemsTotal)

	diff := itemsTotal - purchase.TotalAmount
	if diff > utils.SumEpsilon || diff < -utils.SumEpsilon {
		result.Warnings = map[string]string{
			"totalAmount": fmt.Sprintf("item prices sum to %.2f but totalAmount is %.2f", itemsTotal, purchase.TotalAmount),
		}
	}
}

// equalShares splits the total evenly. Allocation is largest-remainder
// over milli-units in member order, so the shares always sum back to the
// total exactly; the first members absorb any leftover milli-units.
func (s *SettlementService) equalShares(totalAmount float64, memberIDs []string) map[string]float64 {
	allocated := utils.AllocateEven(totalAmount, len(memberIDs))

	shares := make(map[string]float64, len(memberIDs))
	for i, memberID := range memberIDs {
		shares[memberID] = allocated[i]
	}
	return shares
}

// quantityShares attributes each item's cost by per-unit price times the
// quantity a member took. Every item's quantities must account for the
// full purchased quantity or the whole computation is rejected.
func (s *SettlementService) quantityShares(purchase *models.Purchase, rules []models.SplitRule, memberIDs []string) (map[string]float64, map[string]string) {
	ruleByMember := indexRulesByMember(rules)

	validationErrors := make(map[string]string)
	for _, item := range purchase.Items {
		var attributed float64
		for _, memberID := range memberIDs {
			if rule, ok := ruleByMember[memberID]; ok {
				attributed += rule.ItemQuantities[item.ItemID]
			}
		}

		diff := attributed - item.PurchasedQuantity
		if diff > utils.SumEpsilon || diff < -utils.SumEpsilon {
			validationErrors[item.ItemID] = fmt.Sprintf("member quantities sum to %g, expected %g", attributed, item.PurchasedQuantity)
		}
	}
	if len(validationErrors) > 0 {
		return nil, validationErrors
	}

	shares := make(map[string]float64, len(memberIDs))
	for _, memberID := range memberIDs {
		shares[memberID] = 0

		rule, ok := ruleByMember[memberID]
		if !ok {
			continue
		}

		var share float64
		for _, item := range purchase.Items {
			quantity := rule.ItemQuantities[item.ItemID]
			if quantity == 0 {
				continue
			}
			unitPrice := item.ActualPrice / item.PurchasedQuantity
			share += unitPrice * quantity
		}
		shares[memberID] = share
	}
	return shares, nil
}

// customShares takes each member's share from their rule: an absolute
// amount wins over a percentage of the total. The configuration is valid
// when either the percentages cover 100 or the amounts cover the total.
func (s *SettlementService) customShares(totalAmount float64, rules []models.SplitRule, memberIDs []string) (map[string]float64, map[string]string) {
	ruleByMember := indexRulesByMember(rules)

	var percentageSum, amountSum float64
	for _, rule := range rules {
		if rule.Amount != nil {
			amountSum += *rule.Amount
		}
		if rule.Percentage != nil {
			percentageSum += *rule.Percentage
		}
	}

	percentagesReconcile := percentageSum > 100-utils.SumEpsilon && percentageSum < 100+utils.SumEpsilon
	amountsReconcile := amountSum > totalAmount-utils.SumEpsilon && amountSum < totalAmount+utils.SumEpsilon
	if !percentagesReconcile && !amountsReconcile {
		return nil, map[string]string{
			"split": fmt.Sprintf("percentages sum to %g and amounts sum to %g; one of them must cover the purchase", percentageSum, amountSum),
		}
	}

	shares := make(map[string]float64, len(memberIDs))
	for _, memberID := range memberIDs {
		shares[memberID] = 0

		rule, ok := ruleByMember[memberID]
		if !ok {
			continue
		}
		switch {
		case rule.Amount != nil:
			shares[memberID] = *rule.Amount
		case rule.Percentage != nil:
			shares[memberID] = totalAmount * *rule.Percentage / 100
		}
	}
	return shares, nil
}

// netSettlements reduces balances to pairwise transfers. Debtors and
// creditors are walked in the caller's member order and matched greedily
// with min(remaining debt, remaining credit) per transfer. The result is
// not guaranteed to be transfer-count minimal, but it is deterministic
// for a fixed member ordering, which is what recomputation relies on.
func (s *SettlementService) netSettlements(purchaseID string, balances map[string]float64, memberIDs []string) []models.Settlement {
	type remaining struct {
		memberID string
		amount   float64
	}

	var debtors, creditors []remaining
	for _, memberID := range memberIDs {
		balance := balances[memberID]
		switch {
		case balance < -utils.BalanceEpsilon:
			debtors = append(debtors, remaining{memberID, -balance})
		case balance > utils.BalanceEpsilon:
			creditors = append(creditors, remaining{memberID, balance})
		}
	}

	settlements := []models.Settlement{}
	j := 0
	for i := range debtors {
		for debtors[i].amount > utils.BalanceEpsilon && j < len(creditors) {
			amount := utils.RoundMilli(utils.Min(debtors[i].amount, creditors[j].amount))

			if amount > utils.BalanceEpsilon {
				settlements = append(settlements, models.Settlement{
					PurchaseID:   purchaseID,
					FromMemberID: debtors[i].memberID,
					ToMemberID:   creditors[j].memberID,
					Amount:       amount,
					Status:       utils.SettlementPending,
				})
			}

			debtors[i].amount -= amount
			creditors[j].amount -= amount

			if creditors[j].amount <= utils.BalanceEpsilon {
				j++
			}
		}
	}

	return settlements
}

// indexRulesByMember indexes split rules by member id; the last rule wins
// when a member appears twice
func indexRulesByMember(rules []models.SplitRule) map[string]models.SplitRule {
	indexed := make(map[string]models.SplitRule, len(rules))
	for _, rule := range rules {
		indexed[rule.MemberID] = rule
	}
	return indexed
}
