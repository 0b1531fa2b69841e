package security

import (
	"fmt"
	"log/slog"

	"github.com/dukapos/dukapos/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermManageItems    Permission = "manage_items"
	PermRecordSale     Permission = "record_sale"
	PermViewReports    Permission = "view_reports"
	PermManageSettings Permission = "manage_settings"
	PermManageUsers    Permission = "manage_users"
	PermFactoryReset   Permission = "factory_reset"
)

// RolePermissions maps roles to their permissions. Standard users run the
// shop; administrators additionally own accounts, settings and the
// destructive reset.
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermManageItems,
		PermRecordSale,
		PermViewReports,
		PermManageSettings,
		PermManageUsers,
		PermFactoryReset,
	},
	domain.RoleUser: {
		PermManageItems,
		PermRecordSale,
		PermViewReports,
	},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	return RolePermissions[role]
}
