package services

import (
	"errors"

	"daebak/restapi/models"
)

var (
	ErrStaffCodeIncorrect = errors.New("staff code is incorrect")
	ErrUnknownRole        = errors.New("unknown role")
)

// ValidateRegistrationRole checks the requested role. Staff registration
// must present the shared staff code; customer registration has no gate.
func ValidateRegistrationRole(role, staffCode, configuredCode string) error {
	switch role {
	case models.RoleCustomer:
		return nil
	case models.RoleStaff:
		if staffCode != configuredCode {
			return ErrStaffCodeIncorrect
		}
		return nil
	}
	return ErrUnknownRole
}
