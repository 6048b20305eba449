// repository/purchase_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/groupcart-backend/models"
)

// PurchaseRepository handles database operations for purchases and their
// split configuration
type PurchaseRepository struct {
	DB *sql.DB
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// StorePurchase saves a purchase, its items and its split rules in one
// transaction
func (r *PurchaseRepository) StorePurchase(purchase *models.Purchase, rules []models.SplitRule) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO purchases
         (id, group_id, description, total_amount, purchased_by, split_method, creation_time)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		purchase.ID, purchase.GroupID, purchase.Description, purchase.TotalAmount,
		purchase.PurchasedBy, purchase.SplitMethod, purchase.CreationTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %v", err)
	}

	for _, item := range purchase.Items {
		_, err = tx.Exec(
			`INSERT INTO purchase_items
             (purchase_id, item_id, description, purchased_quantity, actual_price)
             VALUES ($1, $2, $3, $4, $5)`,
			purchase.ID, item.ItemID, item.Description, item.PurchasedQuantity, item.ActualPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert purchase item: %v", err)
		}
	}

	if err := insertSplitRules(tx, purchase.ID, rules); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPurchasesByGroup retrieves all purchases for a group, newest first
func (r *PurchaseRepository) GetPurchasesByGroup(groupID string) ([]*models.Purchase, error) {
	rows, err := r.DB.Query(
		`SELECT id, group_id, description, total_amount, purchased_by, split_method, creation_time
         FROM purchases WHERE group_id = $1 ORDER BY creation_time DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %v", err)
	}
	defer rows.Close()

	var purchases []*models.Purchase
	for rows.Next() {
		var purchase models.Purchase
		err := rows.Scan(&purchase.ID, &purchase.GroupID, &purchase.Description,
			&purchase.TotalAmount, &purchase.PurchasedBy, &purchase.SplitMethod, &purchase.CreationTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %v", err)
		}
		purchases = append(purchases, &purchase)
	}

	for _, purchase := range purchases {
		if err := r.loadItems(purchase); err != nil {
			return nil, err
		}
	}

	return purchases, nil
}

// GetPurchaseByID retrieves a single purchase with its items
func (r *PurchaseRepository) GetPurchaseByID(purchaseID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.DB.QueryRow(
		`SELECT id, group_id, description, total_amount, purchased_by, split_method, creation_time
         FROM purchases WHERE id = $1`,
		purchaseID,
	).Scan(&purchase.ID, &purchase.GroupID, &purchase.Description,
		&purchase.TotalAmount, &purchase.PurchasedBy, &purchase.SplitMethod, &purchase.CreationTime)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("purchase not found")
		}
		return nil, fmt.Errorf("failed to get purchase: %v", err)
	}

	if err := r.loadItems(&purchase); err != nil {
		return nil, err
	}

	return &purchase, nil
}

// GetSplitRules retrieves the split configuration of a purchase
func (r *PurchaseRepository) GetSplitRules(purchaseID string) ([]models.SplitRule, error) {
	rows, err := r.DB.Query(
		"SELECT member, percentage, amount FROM split_rules WHERE purchase_id = $1 ORDER BY id",
		purchaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split rules: %v", err)
	}
	defer rows.Close()

	var rules []models.SplitRule
	ruleIndex := make(map[string]int)
	for rows.Next() {
		var rule models.SplitRule
		var percentage, amount sql.NullFloat64
		if err := rows.Scan(&rule.MemberID, &percentage, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split rule: %v", err)
		}
		if percentage.Valid {
			value := percentage.Float64
			rule.Percentage = &value
		}
		if amount.Valid {
			value := amount.Float64
			rule.Amount = &value
		}
		ruleIndex[rule.MemberID] = len(rules)
		rules = append(rules, rule)
	}

	quantityRows, err := r.DB.Query(
		"SELECT member, item_id, quantity FROM split_rule_quantities WHERE purchase_id = $1",
		purchaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split rule quantities: %v", err)
	}
	defer quantityRows.Close()

	for quantityRows.Next() {
		var member, itemID string
		var quantity float64
		if err := quantityRows.Scan(&member, &itemID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan split rule quantity: %v", err)
		}
		i, ok := ruleIndex[member]
		if !ok {
			continue
		}
		if rules[i].ItemQuantities == nil {
			rules[i].ItemQuantities = make(map[string]float64)
		}
		rules[i].ItemQuantities[itemID] = quantity
	}

	return rules, nil
}

// ReplaceSplitRules swaps the full split configuration of a purchase in
// one transaction; the rule set is never partially updated
func (r *PurchaseRepository) ReplaceSplitRules(purchaseID, splitMethod string, rules []models.SplitRule) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("UPDATE purchases SET split_method = $1 WHERE id = $2", splitMethod, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to update split method: %v", err)
	}

	if _, err = tx.Exec("DELETE FROM split_rules WHERE purchase_id = $1", purchaseID); err != nil {
		return fmt.Errorf("failed to delete split rules: %v", err)
	}
	if _, err = tx.Exec("DELETE FROM split_rule_quantities WHERE purchase_id = $1", purchaseID); err != nil {
		return fmt.Errorf("failed to delete split rule quantities: %v", err)
	}

	if err := insertSplitRules(tx, purchaseID, rules); err != nil {
		return err
	}

	return tx.Commit()
}

// RemovePurchase deletes a purchase and everything attached to it.
// Returns false when the purchase does not belong to the group.
func (r *PurchaseRepository) RemovePurchase(groupID, purchaseID string) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		"DELETE FROM settlements WHERE purchase_id = $1",
		"DELETE FROM split_rule_quantities WHERE purchase_id = $1",
		"DELETE FROM split_rules WHERE purchase_id = $1",
		"DELETE FROM purchase_items WHERE purchase_id = $1",
	} {
		if _, err = tx.Exec(query, purchaseID); err != nil {
			return false, fmt.Errorf("failed to delete purchase data: %v", err)
		}
	}

	res, err := tx.Exec("DELETE FROM purchases WHERE id = $1 AND group_id = $2", purchaseID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to delete purchase: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %v", err)
	}
	if affected == 0 {
		return false, nil
	}

	return true, tx.Commit()
}

// loadItems attaches a purchase's items
func (r *PurchaseRepository) loadItems(purchase *models.Purchase) error {
	rows, err := r.DB.Query(
		`SELECT item_id, description, purchased_quantity, actual_price
         FROM purchase_items WHERE purchase_id = $1 ORDER BY id`,
		purchase.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get purchase items: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.PurchaseItem
		if err := rows.Scan(&item.ItemID, &item.Description, &item.PurchasedQuantity, &item.ActualPrice); err != nil {
			return fmt.Errorf("failed to scan purchase item: %v", err)
		}
		purchase.Items = append(purchase.Items, item)
	}
	return nil
}

// insertSplitRules writes a rule set inside an open transaction
func insertSplitRules(tx *sql.Tx, purchaseID string, rules []models.SplitRule) error {
	for _, rule := range rules {
		var percentage, amount sql.NullFloat64
		if rule.Percentage != nil {
			percentage = sql.NullFloat64{Float64: *rule.Percentage, Valid: true}
		}
		if rule.Amount != nil {
			amount = sql.NullFloat64{Float64: *rule.Amount, Valid: true}
		}

		_, err := tx.Exec(
			"INSERT INTO split_rules (purchase_id, member, percentage, amount) VALUES ($1, $2, $3, $4)",
			purchaseID, rule.MemberID, percentage, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split rule: %v", err)
		}

		for itemID, quantity := range rule.ItemQuantities {
			_, err = tx.Exec(
				"INSERT INTO split_rule_quantities (purchase_id, member, item_id, quantity) VALUES ($1, $2, $3, $4)",
				purchaseID, rule.MemberID, itemID, quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split rule quantity: %v", err)
			}
		}
	}
	return nil
}
