package services

import (
	"testing"

	"daebak/restapi/models"
)

func TestValidateRegistrationRole(t *testing.T) {
	const code = "1234!"

	tests := []struct {
		name      string
		role      string
		staffCode string
		wantErr   error
	}{
		{"customer needs no code", models.RoleCustomer, "", nil},
		{"customer ignores code", models.RoleCustomer, "wrong", nil},
		{"staff with right code", models.RoleStaff, code, nil},
		{"staff with wrong code", models.RoleStaff, "0000", ErrStaffCodeIncorrect},
		{"staff with empty code", models.RoleStaff, "", ErrStaffCodeIncorrect},
		{"unknown role", "ADMIN", code, ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistrationRole(tt.role, tt.staffCode, code)
			if err != tt.wantErr {
				t.Errorf("ValidateRegistrationRole(%q, %q) = %v, want %v", tt.role, tt.staffCode, err, tt.wantErr)
			}
		})
	}
}
