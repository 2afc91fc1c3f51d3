// Package inventory provides CRUD operations for stock items and equipment
// assignments to members.
package inventory

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

var (
	// ErrItemNotFound is returned when an inventory item is not found.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrItemNameEmpty is returned when attempting to create an item with an empty name.
	ErrItemNameEmpty = errors.New("item name cannot be empty")
	// ErrNegativeQuantity is returned when a quantity is negative or zero where it must not be.
	ErrNegativeQuantity = errors.New("quantity must be positive")
	// ErrInsufficientStock is returned when assigning more than the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrAssignmentNotFound is returned when an assignment is not found.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrAlreadyReturned is returned when returning an assignment twice.
	ErrAlreadyReturned = errors.New("assignment already returned")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create adds a new item to the inventory.
func Create(db *gorm.DB, item *models.InventoryItem) (*models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if item.ItemName == "" {
		return nil, ErrItemNameEmpty
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	result := db.Create(item)
	if result.Error != nil {
		return nil, result.Error
	}

	return item, nil
}

// GetByID retrieves an inventory item by ID.
func GetByID(db *gorm.DB, id uint64) (*models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var item models.InventoryItem
	result := db.First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}

	return &item, nil
}

// GetAll retrieves the whole inventory ordered by item name.
func GetAll(db *gorm.DB) ([]models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var items []models.InventoryItem
	result := db.Order("item_name ASC").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// GetLowStock retrieves the items whose stock fell to or below their
// low-stock threshold. Items with a zero threshold are never reported.
func GetLowStock(db *gorm.DB) ([]models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var items []models.InventoryItem
	result := db.Where("min_quantity > 0 AND quantity <= min_quantity").
		Order("item_name ASC").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// Update saves changes to an existing inventory item.
func Update(db *gorm.DB, item *models.InventoryItem) (*models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if item.ItemName == "" {
		return nil, ErrItemNameEmpty
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	if _, err := GetByID(db, item.ID); err != nil {
		return nil, err
	}

	result := db.Save(item)
	if result.Error != nil {
		return nil, result.Error
	}

	return item, nil
}

// Delete removes an item and its assignment history from the inventory.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inventory_id = ?", id).
			Delete(&models.EquipmentAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.InventoryItem{}, id).Error
	})
}

// AssignToUser hands out a quantity of an item to a member. The stock
// decrement and the assignment row are written in one transaction; if the
// stock does not cover the request nothing changes.
func AssignToUser(db *gorm.DB, inventoryID, userID uint64, quantity int) (*models.EquipmentAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if quantity <= 0 {
		return nil, ErrNegativeQuantity
	}

	var assignment *models.EquipmentAssignment

	err := db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		result := tx.First(&item, inventoryID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return result.Error
		}

		if item.Quantity < quantity {
			return ErrInsufficientStock
		}

		item.Quantity -= quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		assignment = &models.EquipmentAssignment{
			InventoryID: inventoryID,
			UserID:      userID,
			Quantity:    quantity,
			AssignedAt:  time.Now(),
		}

		return tx.Create(assignment).Error
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Return takes back an assigned item and restores its stock.
func Return(db *gorm.DB, assignmentID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var assignment models.EquipmentAssignment
		result := tx.First(&assignment, assignmentID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return result.Error
		}

		if assignment.ReturnedAt != nil {
			return ErrAlreadyReturned
		}

		var item models.InventoryItem
		result = tx.First(&item, assignment.InventoryID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return result.Error
		}

		item.Quantity += assignment.Quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		now := time.Now()
		assignment.ReturnedAt = &now

		return tx.Save(&assignment).Error
	})
}

// GetAssignmentsForUser retrieves the open assignments of a member.
func GetAssignmentsForUser(db *gorm.DB, userID uint64) ([]models.EquipmentAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var assignments []models.EquipmentAssignment
	result := db.Where("user_id = ? AND returned_at IS NULL", userID).
		Order("assigned_at ASC").
		Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}

	return assignments, nil
}
