package authorization

import "dms_automation/domain/entities"

// Form labels of the add-authorization dialog
const (
	LabelAuthType    = "授权类型"
	LabelGranteeRole = "被授权人角色"
	LabelInstaller   = "安装师傅"
	LabelDuration    = "授权时长"
)

// Form - returns the dialog fields in the order the console expects them.
// The installer list depends on the grantee role, so the role comes before it.
func Form(authType, granteeRole, installer, duration string) []entities.FormFieldSpec {
	return []entities.FormFieldSpec{
		{Label: LabelAuthType, Value: authType, Mode: entities.SelectionDropdown},
		{Label: LabelGranteeRole, Value: granteeRole, Mode: entities.SelectionDropdown},
		{Label: LabelInstaller, Value: installer, Mode: entities.SelectionSearch},
		{Label: LabelDuration, Value: duration, Mode: entities.SelectionDropdown},
	}
}
