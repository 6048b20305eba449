// repository/settlement_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/groupcart-backend/models"
)

// SettlementRepository handles database operations for settlement records.
// The engine's output is deterministic for fixed inputs, so replacing a
// purchase's settlement rows wholesale is idempotent.
type SettlementRepository struct {
	DB *sql.DB
}

// NewSettlementRepository creates a new SettlementRepository
func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{DB: db}
}

// ReplaceForPurchase swaps all settlement rows of a purchase in one
// transaction
func (r *SettlementRepository) ReplaceForPurchase(purchaseID, groupID string, settlements []models.Settlement) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM settlements WHERE purchase_id = $1", purchaseID); err != nil {
		return fmt.Errorf("failed to delete settlements: %v", err)
	}

	for _, settlement := range settlements {
		_, err = tx.Exec(
			`INSERT INTO settlements
             (id, purchase_id, group_id, from_member, to_member, amount, status)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			settlement.ID, purchaseID, groupID, settlement.FromMemberID,
			settlement.ToMemberID, settlement.Amount, settlement.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %v", err)
		}
	}

	return tx.Commit()
}

// GetByGroup retrieves all settlement rows for a group
func (r *SettlementRepository) GetByGroup(groupID string) ([]models.Settlement, error) {
	return r.query(
		`SELECT id, purchase_id, from_member, to_member, amount, status
         FROM settlements WHERE group_id = $1 ORDER BY purchase_id, id`,
		groupID,
	)
}

// GetByPurchase retrieves the settlement rows of a single purchase
func (r *SettlementRepository) GetByPurchase(purchaseID string) ([]models.Settlement, error) {
	return r.query(
		`SELECT id, purchase_id, from_member, to_member, amount, status
         FROM settlements WHERE purchase_id = $1 ORDER BY id`,
		purchaseID,
	)
}

// GetByID retrieves one settlement row
func (r *SettlementRepository) GetByID(settlementID string) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.DB.QueryRow(
		`SELECT id, purchase_id, from_member, to_member, amount, status
         FROM settlements WHERE id = $1`,
		settlementID,
	).Scan(&settlement.ID, &settlement.PurchaseID, &settlement.FromMemberID,
		&settlement.ToMemberID, &settlement.Amount, &settlement.Status)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("settlement not found")
		}
		return nil, fmt.Errorf("failed to get settlement: %v", err)
	}
	return &settlement, nil
}

// MarkCompleted flips a settlement to completed once a real-world payment
// is acknowledged
func (r *SettlementRepository) MarkCompleted(settlementID string) error {
	res, err := r.DB.Exec(
		"UPDATE settlements SET status = 'completed' WHERE id = $1",
		settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %v", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement not found")
	}
	return nil
}

func (r *SettlementRepository) query(query string, args ...interface{}) ([]models.Settlement, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlements: %v", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var settlement models.Settlement
		err := rows.Scan(&settlement.ID, &settlement.PurchaseID, &settlement.FromMemberID,
			&settlement.ToMemberID, &settlement.Amount, &settlement.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %v", err)
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}
