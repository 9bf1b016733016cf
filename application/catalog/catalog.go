// Package catalog holds the locator strategies for every role of the DMS console.
//
// The console is an Element UI application with Chinese labels. Strategies for a role
// are listed from the most specific to the most permissive; XPath values that start
// with "." are relative to the role's scope.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dms_automation/domain/entities"
)

type roleEntry struct {
	interactive bool
	scope       entities.Role
	strategies  []entities.LocatorStrategy
}

// Catalog maps roles to their ordered strategies
type Catalog struct {
	roles map[entities.Role]*roleEntry
}

func strategy(name string, sel entities.Selector) entities.LocatorStrategy {
	return entities.LocatorStrategy{Name: name, Selector: sel}
}

// Default - returns the catalog for the DMS console
func Default() *Catalog {
	c := &Catalog{roles: make(map[entities.Role]*roleEntry)}

	c.define(entities.RoleUsernameField, true, "",
		strategy("placeholder-account", entities.CSS("input[placeholder*='账号']")),
		strategy("placeholder-user", entities.CSS("input[placeholder*='用户']")),
		strategy("first-text-input", entities.XPath("(//input[(@type='text' or not(@type)) and not(contains(@placeholder,'码'))])[1]")),
	)
	c.define(entities.RolePasswordField, true, "",
		strategy("password-type", entities.CSS("input[type='password']")),
	)
	c.define(entities.RoleCaptchaField, true, "",
		strategy("placeholder-captcha", entities.CSS("input[placeholder*='验证码']")),
		strategy("placeholder-code", entities.CSS("input[placeholder*='码']")),
		strategy("last-input", entities.XPath("(//input[not(@type='password') and not(@type='hidden')])[last()]")),
	)
	c.define(entities.RoleCaptchaImage, false, "",
		strategy("img-data-src", entities.XPath("//img[contains(@src,'data:image')]")),
		strategy("img-base64-src", entities.XPath("//img[contains(@src,'base64')]")),
		strategy("img-data-css", entities.CSS("img[src^='data:image']")),
	)
	c.define(entities.RoleLoginButton, true, "",
		strategy("button-login", entities.XPath("//button[contains(.,'登录')]")),
		strategy("button-login-spaced", entities.XPath("//button[contains(.,'登 录')]")),
		strategy("button-span-login", entities.XPath("//button[.//span[contains(text(),'登')]]")),
		strategy("primary-button", entities.CSS("button.el-button--primary")),
	)
	c.define(entities.RoleLoginMessage, false, "",
		strategy("message-or-error", entities.XPath("//*[contains(@class,'el-message') or contains(@class,'error')]")),
	)
	c.define(entities.RoleDetailReady, false, "",
		strategy("authorization-text", entities.XPath("//*[contains(text(),'授权信息')]")),
	)
	c.define(entities.RoleAuthorizationTab, true, "",
		strategy("tabs-item-text", entities.XPath("//div[contains(@class,'el-tabs__item') and contains(text(),'授权信息')]")),
		strategy("tabs-item-descendant", entities.XPath("//*[contains(@class,'el-tabs__item')][contains(.,'授权信息')]")),
		strategy("role-tab", entities.XPath("//div[@role='tab' and contains(text(),'授权信息')]")),
		strategy("exact-text", entities.XPath("//*[text()='授权信息']")),
		strategy("span-exact-text", entities.XPath("//span[text()='授权信息']")),
		strategy("contains-text", entities.XPath("//*[contains(text(),'授权信息')]")),
	)
	c.define(entities.RoleAddAuthorizationButton, true, "",
		strategy("button-text", entities.XPath("//button[contains(.,'新增授权')]")),
		strategy("button-span", entities.XPath("//button[.//span[contains(text(),'新增授权')]]")),
		strategy("span-parent", entities.XPath("//span[contains(text(),'新增授权')]/parent::button")),
		strategy("el-button", entities.XPath("//*[contains(@class,'el-button') and contains(.,'新增授权')]")),
		strategy("primary-add", entities.XPath("//button[contains(@class,'el-button--primary')][contains(.,'新增')]")),
	)
	c.define(entities.RoleDialog, false, "",
		strategy("open-wrapper", entities.XPath("//div[contains(@class,'el-dialog__wrapper') and not(contains(@style,'display: none'))]//div[contains(@class,'el-dialog')]")),
		strategy("dialog", entities.CSS(".el-dialog")),
	)
	c.define(entities.RoleDialogClose, true, entities.RoleDialog,
		strategy("header-close", entities.CSS(".el-dialog__headerbtn")),
		strategy("cancel", entities.XPath(".//button[contains(.,'取消')]")),
		strategy("cancel-spaced", entities.XPath(".//button[contains(.,'取 消')]")),
	)
	c.define(entities.RoleFormItem, false, entities.RoleDialog,
		strategy("label-ancestor", entities.XPath(".//label[contains(text(),{text})]/ancestor::div[contains(@class,'el-form-item')]")),
		strategy("text-ancestor", entities.XPath(".//*[contains(text(),{text})]/ancestor::div[contains(@class,'el-form-item')]")),
		strategy("item-with-label", entities.XPath(".//div[contains(@class,'el-form-item')][.//label[contains(text(),{text})]]")),
		strategy("following-select", entities.XPath(".//*[contains(text(),{text})]/following::div[contains(@class,'el-select')][1]")),
	)
	c.define(entities.RoleSelectTrigger, true, "",
		strategy("select-input", entities.CSS(".el-select input.el-input__inner")),
		strategy("select", entities.CSS(".el-select")),
		strategy("self", entities.XPath(".")),
	)
	c.define(entities.RoleTextInput, true, "",
		strategy("inner-input", entities.CSS("input.el-input__inner")),
		strategy("textarea", entities.CSS("textarea")),
		strategy("any-input", entities.XPath(".//input[not(@type='hidden')]")),
	)
	c.define(entities.RoleDropdownOption, true, "",
		strategy("dropdown-item", entities.XPath("//li[contains(@class,'el-select-dropdown__item')][contains(.,{text})]")),
		strategy("dropdown-li", entities.XPath("//div[contains(@class,'el-select-dropdown')]//li[contains(.,{text})]")),
		strategy("dropdown-list-li", entities.XPath("//ul[contains(@class,'el-select-dropdown__list')]//li[contains(.,{text})]")),
		strategy("span-ancestor-li", entities.XPath("//span[contains(text(),{text})]/ancestor::li")),
	)
	c.define(entities.RoleInstallerDropdown, true, entities.RoleDialog,
		strategy("label-sibling-input", entities.XPath(".//label[contains(text(),{text})]/following-sibling::div//input")),
		strategy("following-select-input", entities.XPath(".//*[contains(text(),{text})]/following::div[contains(@class,'el-select')][1]//input")),
		strategy("placeholder-exact", entities.XPath(".//input[@placeholder=concat('请选择',{text})]")),
		strategy("placeholder-label", entities.XPath(".//input[contains(@placeholder,{text})]")),
		strategy("placeholder-select", entities.XPath(".//input[contains(@placeholder,'选择')]")),
		strategy("third-select", entities.XPath("(.//div[contains(@class,'el-select')])[3]")),
	)
	c.define(entities.RoleInstallerOption, true, "",
		strategy("dropdown-item-text", entities.XPath("//li[contains(@class,'el-select-dropdown__item')][contains(.,{text})]")),
	)
	c.define(entities.RoleDropdownWrap, false, "",
		strategy("open-dropdown-wrap", entities.XPath("//div[contains(@class,'el-select-dropdown') and not(contains(@style,'display: none'))]//div[contains(@class,'el-select-dropdown__wrap')]")),
		strategy("dropdown-wrap", entities.CSS(".el-select-dropdown .el-select-dropdown__wrap")),
	)
	c.define(entities.RoleDropdownItem, false, "",
		strategy("dropdown-items", entities.CSS("li.el-select-dropdown__item")),
	)
	c.define(entities.RoleConfirmButton, true, entities.RoleDialog,
		strategy("button-confirm", entities.XPath(".//button[contains(.,'确定')]")),
		strategy("button-confirm-spaced", entities.XPath(".//button[contains(.,'确 定')]")),
		strategy("footer-primary", entities.XPath(".//div[contains(@class,'el-dialog__footer')]//button[contains(@class,'el-button--primary')]")),
		strategy("span-parent", entities.XPath(".//span[text()='确定']/parent::button")),
		strategy("span-parent-spaced", entities.XPath(".//span[text()='确 定']/parent::button")),
		strategy("footer-second-button", entities.XPath(".//div[@class='el-dialog__footer']//button[2]")),
	)

	return c
}

func (c *Catalog) define(role entities.Role, interactive bool, scope entities.Role, strategies ...entities.LocatorStrategy) {
	for i := range strategies {
		strategies[i].Role = role
	}
	c.roles[role] = &roleEntry{interactive: interactive, scope: scope, strategies: strategies}
}

// Strategies returns the ordered strategies of a role
func (c *Catalog) Strategies(role entities.Role) []entities.LocatorStrategy {
	entry, ok := c.roles[role]
	if !ok {
		return nil
	}
	out := make([]entities.LocatorStrategy, len(entry.strategies))
	copy(out, entry.strategies)
	return out
}

// Target - resolves a role into a locator target, substituting text into templates.
// Roles that live inside another role get that role as their scope.
func (c *Catalog) Target(role entities.Role, text string) entities.Target {
	entry, ok := c.roles[role]
	if !ok {
		return entities.Target{Role: role}
	}

	target := entities.Target{Role: role, Interactive: entry.interactive}
	for _, s := range entry.strategies {
		s.Selector = s.Selector.Fill(text)
		target.Strategies = append(target.Strategies, s)
	}
	if entry.scope != "" && entry.scope != role {
		scope := c.Target(entry.scope, "")
		target.Scope = &scope
	}
	return target
}

// Override replaces the strategies of a role, keeping its scope
func (c *Catalog) Override(role entities.Role, interactive *bool, strategies []entities.LocatorStrategy) {
	entry, ok := c.roles[role]
	if !ok {
		entry = &roleEntry{}
		c.roles[role] = entry
	}
	if interactive != nil {
		entry.interactive = *interactive
	}
	for i := range strategies {
		strategies[i].Role = role
	}
	entry.strategies = strategies
}

type fileRole struct {
	Interactive *bool                      `yaml:"interactive"`
	Strategies  []entities.LocatorStrategy `yaml:"strategies"`
}

type file struct {
	Roles map[entities.Role]fileRole `yaml:"roles"`
}

// LoadFile - applies the role overrides from a YAML file on top of the default catalog
func LoadFile(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locators file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse locators file: %w", err)
	}

	for role, r := range f.Roles {
		if len(r.Strategies) == 0 {
			return nil, fmt.Errorf("role %s: no strategies", role)
		}
		for i, s := range r.Strategies {
			if s.Selector.By != entities.ByCSS && s.Selector.By != entities.ByXPath {
				return nil, fmt.Errorf("role %s strategy %d: unknown selector kind %q", role, i, s.Selector.By)
			}
			if s.Selector.Value == "" {
				return nil, fmt.Errorf("role %s strategy %d: empty selector", role, i)
			}
		}
		c.Override(role, r.Interactive, r.Strategies)
	}

	return c, nil
}
