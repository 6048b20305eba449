// services/export_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

// ExportService generates Excel exports of a group's ledger
type ExportService struct {
	groupService    *GroupService
	purchaseService *PurchaseService
}

// NewExportService creates a new export service
func NewExportService(groupService *GroupService, purchaseService *PurchaseService) *ExportService {
	return &ExportService{
		groupService:    groupService,
		purchaseService: purchaseService,
	}
}

// MemberSummary represents one member's position across all purchases
type MemberSummary struct {
	Name       string
	TotalSpent float64 // money fronted for the group
	TotalOwed  float64 // consumed share across purchases
	NetBalance float64 // positive = should receive, negative = should pay
}

// ExportGroupToExcel builds a workbook with a member summary, the
// purchase history and the current settlement rows
func (s *ExportService) ExportGroupToExcel(code string) (*excelize.File, string, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get group: %v", err)
	}

	purchases, err := s.purchaseService.ListPurchases(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get purchases: %v", err)
	}

	settlements, err := s.purchaseService.GroupSettlements(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get settlements: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createSummarySheet(f, group, purchases); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %v", err)
	}
	if err := s.createPurchaseSheet(f, group, purchases); err != nil {
		return nil, "", fmt.Errorf("failed to create purchase sheet: %v", err)
	}
	if err := s.createSettlementSheet(f, settlements); err != nil {
		return nil, "", fmt.Errorf("failed to create settlement sheet: %v", err)
	}

	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Export_%s.xlsx",
		utils.CleanFileName(group.Name),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createSummarySheet writes each member's spent/owed/net position
func (s *ExportService) createSummarySheet(f *excelize.File, group *models.Group, purchases []*models.Purchase) error {
	sheetName := "Summary"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	summaries, err := s.calculateMemberSummaries(group, purchases)
	if err != nil {
		return err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	headers := []string{"Member", "Total Spent", "Total Owed", "Net Balance"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", string(rune('A'+len(headers)-1))), headerStyle)

	for i, summary := range summaries {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), utils.FormatNameForDisplay(summary.Name))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), utils.Round(summary.TotalSpent))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), utils.Round(summary.TotalOwed))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), utils.Round(summary.NetBalance))
	}

	return nil
}

// createPurchaseSheet writes the purchase history with one column per
// member holding that member's owed share
func (s *ExportService) createPurchaseSheet(f *excelize.File, group *models.Group, purchases []*models.Purchase) error {
	sheetName := "Purchases"
	f.NewSheet(sheetName)

	headers := []string{"Date", "Description", "Purchased By", "Split Method", "Total"}
	for _, member := range group.Members {
		headers = append(headers, utils.FormatNameForDisplay(member))
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, purchase := range purchases {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row),
			time.UnixMilli(purchase.CreationTime).Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), purchase.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), utils.FormatNameForDisplay(purchase.PurchasedBy))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), purchase.SplitMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), utils.Round(purchase.TotalAmount))

		shares, err := s.memberShares(group, purchase)
		if err != nil {
			return err
		}
		for j, member := range group.Members {
			cell, _ := excelize.CoordinatesToCellName(6+j, row)
			f.SetCellValue(sheetName, cell, utils.Round(shares[member]))
		}
	}

	return nil
}

// createSettlementSheet writes the current settlement rows
func (s *ExportService) createSettlementSheet(f *excelize.File, settlements []models.Settlement) error {
	sheetName := "Settlements"
	f.NewSheet(sheetName)

	headers := []string{"From", "To", "Amount", "Status"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	for i, settlement := range settlements {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), utils.FormatNameForDisplay(settlement.FromMemberID))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), utils.FormatNameForDisplay(settlement.ToMemberID))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), settlement.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), settlement.Status)
	}

	return nil
}

// calculateMemberSummaries folds every purchase's balances into per-member
// totals
func (s *ExportService) calculateMemberSummaries(group *models.Group, purchases []*models.Purchase) ([]MemberSummary, error) {
	spent := make(map[string]float64)
	net := make(map[string]float64)
	for _, member := range group.Members {
		spent[member] = 0
		net[member] = 0
	}

	for _, purchase := range purchases {
		spent[purchase.PurchasedBy] += purchase.TotalAmount

		result, err := s.purchaseService.ComputeStoredSettlements(group, purchase)
		if err != nil {
			return nil, err
		}
		for member, balance := range result.Balances {
			net[member] += balance
		}
	}

	var summaries []MemberSummary
	for _, member := range group.Members {
		summaries = append(summaries, MemberSummary{
			Name:       member,
			TotalSpent: spent[member],
			TotalOwed:  spent[member] - net[member],
			NetBalance: net[member],
		})
	}
	return summaries, nil
}

// memberShares returns what each member owes for one purchase
func (s *ExportService) memberShares(group *models.Group, purchase *models.Purchase) (map[string]float64, error) {
	result, err := s.purchaseService.ComputeStoredSettlements(group, purchase)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]float64, len(group.Members))
	for _, member := range group.Members {
		credit := 0.0
		if member == purchase.PurchasedBy {
			credit = purchase.TotalAmount
		}
		shares[member] = credit - result.Balances[member]
	}
	return shares, nil
}
