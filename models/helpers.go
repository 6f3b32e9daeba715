package models

import (
	"errors"

	"gorm.io/gorm"

	"growthflow-server/types"
)

// validateManagerRef rejects manager references that do not resolve to a
// user with the manager role.
func validateManagerRef(tx *gorm.DB, managerID uint) error {
	var mgr User
	if err := tx.First(&mgr, managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.ValidationError{Message: "manager reference does not exist"}
		}
		return err
	}
	if !mgr.IsManager() {
		return &types.ValidationError{Message: "manager reference must have the manager role"}
	}
	return nil
}

// validateEmployeeRef rejects employee references that do not resolve to
// a user with the employee role.
func validateEmployeeRef(tx *gorm.DB, employeeID uint) error {
	var emp User
	if err := tx.First(&emp, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.ValidationError{Message: "employee reference does not exist"}
		}
		return err
	}
	if !emp.IsEmployee() {
		return &types.ValidationError{Message: "employee reference must have the employee role"}
	}
	return nil
}
