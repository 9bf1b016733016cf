package interfaces

import (
	"context"

	"dms_automation/domain/entities"
)

// SecurityLayer defines the interface for security checks
type SecurityLayer interface {
	// RequiresApproval reports whether acting on the role must be held back
	RequiresApproval(ctx context.Context, role entities.Role) bool

	// MaskSecret returns a printable stand-in for a secret
	MaskSecret(secret string) string
}
