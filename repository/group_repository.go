// repository/group_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/groupcart-backend/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	DB *sql.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// StoreGroup saves a group and its initial members
func (r *GroupRepository) StoreGroup(group *models.Group) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO groups (id, code, name, creation_time) VALUES ($1, $2, $3, $4)",
		group.ID, group.Code, group.Name, group.CreationTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %v", err)
	}

	for _, member := range group.Members {
		_, err = tx.Exec(
			"INSERT INTO group_members (group_id, member) VALUES ($1, $2)",
			group.ID, member,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %v", err)
		}
	}

	return tx.Commit()
}

// GetGroupByCode retrieves a group and its members by join code
func (r *GroupRepository) GetGroupByCode(code string) (*models.Group, error) {
	var group models.Group
	err := r.DB.QueryRow(
		"SELECT id, code, name, creation_time FROM groups WHERE code = $1",
		code,
	).Scan(&group.ID, &group.Code, &group.Name, &group.CreationTime)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to get group: %v", err)
	}

	rows, err := r.DB.Query(
		"SELECT member FROM group_members WHERE group_id = $1 ORDER BY id",
		group.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan member: %v", err)
		}
		group.Members = append(group.Members, member)
	}

	return &group, nil
}

// AddMember adds a member to a group if they are not already in it
func (r *GroupRepository) AddMember(groupID, member string) error {
	var exists bool
	err := r.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND member = $2)",
		groupID, member,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check member: %v", err)
	}
	if exists {
		return nil
	}

	_, err = r.DB.Exec(
		"INSERT INTO group_members (group_id, member) VALUES ($1, $2)",
		groupID, member,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %v", err)
	}
	return nil
}
