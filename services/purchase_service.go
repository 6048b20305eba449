// services/purchase_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/repository"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// PurchaseService records purchases, keeps their split configuration and
// persisted settlements in sync, and exposes settlement status changes
type PurchaseService struct {
	purchaseRepo   *repository.PurchaseRepository
	settlementRepo *repository.SettlementRepository
	groupService   *GroupService
	engine         *SettlementService
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchaseRepo *repository.PurchaseRepository, settlementRepo *repository.SettlementRepository, groupService *GroupService, engine *SettlementService) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:   purchaseRepo,
		settlementRepo: settlementRepo,
		groupService:   groupService,
		engine:         engine,
	}
}

// RecordPurchase validates and stores a purchase together with the
// settlements computed from its split configuration. When the split does
// not reconcile, nothing is persisted and the returned result carries the
// validation errors (purchase is nil in that case).
func (s *PurchaseService) RecordPurchase(request *models.RecordPurchaseRequest) (*models.Purchase, *models.SettlementResult, error) {
	group, err := s.groupService.GetGroupByCode(request.Code)
	if err != nil {
		return nil, nil, err
	}

	purchase := models.NewPurchase(
		uuid.New().String(),
		group.ID,
		request.Description,
		request.TotalAmount,
		utils.NormalizeName(request.PurchasedBy),
		request.SplitMethod,
		request.Items,
	)
	rules := normalizeRuleMembers(request.SplitRules)

	result, err := s.engine.ComputeSettlements(purchase, request.SplitMethod, rules, group.Members)
	if err != nil {
		return nil, nil, err
	}
	if len(result.ValidationErrors) > 0 {
		return nil, result, nil
	}

	assignSettlementIDs(result.Settlements)

	if err := s.purchaseRepo.StorePurchase(purchase, rules); err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToStore)
	}
	if err := s.settlementRepo.ReplaceForPurchase(purchase.ID, group.ID, result.Settlements); err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return purchase, result, nil
}

// ReplaceSplit atomically swaps a purchase's split configuration and
// recomputes its settlements. Status already acknowledged on old rows is
// dropped along with them: a changed split invalidates the old transfers.
func (s *PurchaseService) ReplaceSplit(request *models.ReplaceSplitRequest) (*models.Purchase, *models.SettlementResult, error) {
	group, err := s.groupService.GetGroupByCode(request.Code)
	if err != nil {
		return nil, nil, err
	}

	purchase, err := s.purchaseRepo.GetPurchaseByID(request.PurchaseID)
	if err != nil || purchase.GroupID != group.ID {
		return nil, nil, utils.NewNotFoundError(utils.ErrPurchaseNotFound)
	}

	rules := normalizeRuleMembers(request.SplitRules)
	purchase.SplitMethod = request.SplitMethod

	result, err := s.engine.ComputeSettlements(purchase, request.SplitMethod, rules, group.Members)
	if err != nil {
		return nil, nil, err
	}
	if len(result.ValidationErrors) > 0 {
		return nil, result, nil
	}

	assignSettlementIDs(result.Settlements)

	if err := s.purchaseRepo.ReplaceSplitRules(purchase.ID, request.SplitMethod, rules); err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToStore)
	}
	if err := s.settlementRepo.ReplaceForPurchase(purchase.ID, group.ID, result.Settlements); err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return purchase, result, nil
}

// ListPurchases returns all purchases of a group
func (s *PurchaseService) ListPurchases(code string) ([]*models.Purchase, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchaseRepo.GetPurchasesByGroup(group.ID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return purchases, nil
}

// RemovePurchase deletes a purchase and its settlement rows
func (s *PurchaseService) RemovePurchase(code, purchaseID string) error {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return err
	}

	removed, err := s.purchaseRepo.RemovePurchase(group.ID, purchaseID)
	if err != nil {
		return utils.NewInternalError(utils.ErrFailedToStore)
	}
	if !removed {
		return utils.NewNotFoundError(utils.ErrPurchaseNotFound)
	}
	return nil
}

// GroupSettlements returns all persisted settlement rows of a group
func (s *PurchaseService) GroupSettlements(code string) ([]models.Settlement, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	settlements, err := s.settlementRepo.GetByGroup(group.ID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return settlements, nil
}

// MarkSettlementCompleted acknowledges a real-world payment for one
// settlement row. It returns the acknowledged row together with the
// purchase's full settlement list so clients can re-render it without a
// second round trip.
func (s *PurchaseService) MarkSettlementCompleted(code, settlementID string) (*models.Settlement, []models.Settlement, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, nil, err
	}

	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, nil, utils.NewNotFoundError(utils.ErrSettlementNotFound)
	}

	purchase, err := s.purchaseRepo.GetPurchaseByID(settlement.PurchaseID)
	if err != nil || purchase.GroupID != group.ID {
		return nil, nil, utils.NewNotFoundError(utils.ErrSettlementNotFound)
	}

	if err := s.settlementRepo.MarkCompleted(settlementID); err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	settlement.Status = utils.SettlementCompleted

	rows, err := s.settlementRepo.GetByPurchase(settlement.PurchaseID)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return settlement, rows, nil
}

// ComputeStoredSettlements reruns the engine for an already stored
// purchase using its persisted split rules
func (s *PurchaseService) ComputeStoredSettlements(group *models.Group, purchase *models.Purchase) (*models.SettlementResult, error) {
	rules, err := s.purchaseRepo.GetSplitRules(purchase.ID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return s.engine.ComputeSettlements(purchase, purchase.SplitMethod, rules, group.Members)
}

// normalizeRuleMembers lowercases member names on incoming rules so they
// match stored group members
func normalizeRuleMembers(rules []models.SplitRule) []models.SplitRule {
	normalized := make([]models.SplitRule, len(rules))
	for i, rule := range rules {
		normalized[i] = rule
		normalized[i].MemberID = utils.NormalizeName(rule.MemberID)
	}
	return normalized
}

// assignSettlementIDs stamps fresh ids on engine output before it is
// persisted
func assignSettlementIDs(settlements []models.Settlement) {
	for i := range settlements {
		settlements[i].ID = uuid.New().String()
	}
}
