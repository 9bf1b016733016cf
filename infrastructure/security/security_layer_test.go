package security

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"dms_automation/domain/entities"
)

func newLayer(dryRun bool) *SecurityLayer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSecurityLayer(logger, dryRun)
}

func TestRequiresApproval(t *testing.T) {
	ctx := context.Background()

	live := newLayer(false)
	assert.False(t, live.RequiresApproval(ctx, entities.RoleConfirmButton))

	dry := newLayer(true)
	assert.True(t, dry.RequiresApproval(ctx, entities.RoleConfirmButton))
	assert.False(t, dry.RequiresApproval(ctx, entities.RoleAddAuthorizationButton))
	assert.False(t, dry.RequiresApproval(ctx, entities.RoleDialogClose))
}

func TestMaskSecret(t *testing.T) {
	s := newLayer(false)
	assert.Equal(t, "*******", s.MaskSecret("zh@8888"))
	assert.Equal(t, "**", s.MaskSecret("密码"))
	assert.Empty(t, s.MaskSecret(""))
}
