package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dms_automation/domain/entities"
)

func TestTargetFillsTextIntoXPathTemplates(t *testing.T) {
	c := Default()

	target := c.Target(entities.RoleDropdownOption, "一个月")

	require.NotEmpty(t, target.Strategies)
	assert.Equal(t, "//li[contains(@class,'el-select-dropdown__item')][contains(.,'一个月')]", target.Strategies[0].Selector.Value)
	assert.True(t, target.Interactive)
	assert.Nil(t, target.Scope)
}

func TestConfirmButtonIsScopedToDialog(t *testing.T) {
	target := Default().Target(entities.RoleConfirmButton, "")

	require.NotNil(t, target.Scope)
	assert.Equal(t, entities.RoleDialog, target.Scope.Role)
	for _, s := range target.Strategies {
		assert.Equal(t, entities.RoleConfirmButton, s.Role)
		assert.Equal(t, ".", s.Selector.Value[:1], "confirm strategies must stay inside the dialog: %s", s.Selector.Value)
	}
}

func TestStrategiesReturnsCopy(t *testing.T) {
	c := Default()
	s := c.Strategies(entities.RoleLoginButton)
	s[0].Name = "mutated"

	assert.NotEqual(t, "mutated", c.Strategies(entities.RoleLoginButton)[0].Name)
}

func TestLoadFileOverridesRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locators.yaml")
	content := `
roles:
  confirm-button:
    strategies:
      - name: custom
        by: css
        value: button.submit
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	target := c.Target(entities.RoleConfirmButton, "")
	require.Len(t, target.Strategies, 1)
	assert.Equal(t, "custom", target.Strategies[0].Name)
	assert.Equal(t, entities.CSS("button.submit"), target.Strategies[0].Selector)
	assert.Equal(t, entities.RoleConfirmButton, target.Strategies[0].Role)
	require.NotNil(t, target.Scope, "override keeps the dialog scope")
	assert.NotEmpty(t, c.Strategies(entities.RoleLoginButton))
}

func TestLoadFileRejectsUnknownSelectorKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locators.yaml")
	content := `
roles:
  login-button:
    strategies:
      - by: id
        value: login
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileWithoutPathReturnsDefault(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Len(t, c.Strategies(entities.RoleAuthorizationTab), 6)
}
