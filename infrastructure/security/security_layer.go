package security

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// submittingRoles change data on the console when clicked
var submittingRoles = map[entities.Role]bool{
	entities.RoleConfirmButton: true,
}

type SecurityLayer struct {
	logger *logrus.Logger
	dryRun bool
}

// NewSecurityLayer - in dry-run mode every submitting action is held back
func NewSecurityLayer(logger *logrus.Logger, dryRun bool) *SecurityLayer {
	return &SecurityLayer{
		logger: logger,
		dryRun: dryRun,
	}
}

func (s *SecurityLayer) RequiresApproval(ctx context.Context, role entities.Role) bool {
	if !s.dryRun || !s.IsSubmission(role) {
		return false
	}
	s.logger.WithField("role", role).Warn("dry run: holding back submission")
	return true
}

// IsSubmission reports whether clicking the role submits data
func (s *SecurityLayer) IsSubmission(role entities.Role) bool {
	return submittingRoles[role]
}

// MaskSecret replaces every character with an asterisk
func (s *SecurityLayer) MaskSecret(secret string) string {
	return strings.Repeat("*", len([]rune(secret)))
}

var _ interfaces.SecurityLayer = (*SecurityLayer)(nil)
