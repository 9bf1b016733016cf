// Package authorization adds door-lock authorizations through the console dialog.
package authorization

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/application/catalog"
	"dms_automation/application/executor"
	"dms_automation/application/locator"
	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// Deps groups the collaborators of a Workflow
type Deps struct {
	Locator     *locator.Locator
	Executor    *executor.Executor
	Catalog     *catalog.Catalog
	Screenshots interfaces.ScreenshotStore
	Security    interfaces.SecurityLayer
	Timing      entities.Timing
	Logger      *logrus.Logger
}

// Workflow runs the add-authorization pipeline on the open detail view
type Workflow struct {
	locator     *locator.Locator
	executor    *executor.Executor
	catalog     *catalog.Catalog
	screenshots interfaces.ScreenshotStore
	security    interfaces.SecurityLayer
	timing      entities.Timing
	logger      *logrus.Logger
	fields      []entities.FormFieldSpec
}

// NewWorkflow - creates a workflow filling fields in the given order
func NewWorkflow(deps Deps, fields []entities.FormFieldSpec) *Workflow {
	return &Workflow{
		locator:     deps.Locator,
		executor:    deps.Executor,
		catalog:     deps.Catalog,
		screenshots: deps.Screenshots,
		security:    deps.Security,
		timing:      deps.Timing,
		logger:      deps.Logger,
		fields:      fields,
	}
}

// Run performs one authorization: open the tab, open the dialog, fill every field and
// confirm. Each step runs only if the previous one succeeded.
func (w *Workflow) Run(ctx context.Context) bool {
	w.logger.Info("🔄 starting authorization")

	res := w.executor.Click(ctx, w.catalog.Target(entities.RoleAuthorizationTab, ""),
		executor.WithAttempts(2), executor.WithScreenshot("tab_not_found.png"))
	if !res.Succeeded || !w.settle(ctx) {
		return false
	}

	res = w.executor.Click(ctx, w.catalog.Target(entities.RoleAddAuthorizationButton, ""),
		executor.WithAttempts(2), executor.WithScreenshot("button_not_found.png"))
	if !res.Succeeded {
		return false
	}

	if _, err := w.locator.Await(ctx, w.catalog.Target(entities.RoleDialog, ""), w.timing.ElementTimeout); err != nil {
		w.logger.Errorf("❌ authorization dialog did not open: %v", err)
		return false
	}
	w.logger.Info("✅ authorization dialog open")
	if !w.settle(ctx) {
		return false
	}

	if !w.fill(ctx) {
		w.dismiss(ctx)
		return false
	}

	if w.security.RequiresApproval(ctx, entities.RoleConfirmButton) {
		w.logger.Warn("🛑 dry run, submission skipped")
		w.dismiss(ctx)
		return true
	}

	res = w.executor.Click(ctx, w.catalog.Target(entities.RoleConfirmButton, ""), executor.WithAttempts(2))
	if !res.Succeeded {
		w.dismiss(ctx)
		return false
	}

	if err := w.awaitClosed(ctx); err != nil {
		w.logger.Errorf("❌ dialog still open after confirm: %v", err)
		w.dismiss(ctx)
		return false
	}

	w.logger.Info("🎉 authorization added")
	return true
}

func (w *Workflow) fill(ctx context.Context) bool {
	for i, field := range w.fields {
		log := w.logger.WithFields(logrus.Fields{"step": i + 1, "label": field.Label, "value": field.Value})
		log.Info("📝 filling field")

		res := w.fillField(ctx, field)
		if !res.Succeeded {
			log.Errorf("❌ field not filled: %v", res.Err)
			return false
		}
		if !w.settle(ctx) {
			return false
		}
	}
	return true
}

func (w *Workflow) fillField(ctx context.Context, field entities.FormFieldSpec) entities.AttemptResult {
	item := w.catalog.Target(entities.RoleFormItem, field.Label)
	list := w.catalog.Target(entities.RoleDropdownWrap, "")

	switch field.Mode {
	case entities.SelectionText:
		input := w.catalog.Target(entities.RoleTextInput, "").Within(item)
		return w.executor.SetValue(ctx, input, field.Value, executor.WithAttempts(2))

	case entities.SelectionDropdown:
		trigger := w.catalog.Target(entities.RoleSelectTrigger, "").Within(item)
		option := w.catalog.Target(entities.RoleDropdownOption, field.Value)
		return w.executor.SelectOption(ctx, trigger, list, option.Role, w.executor.Await(option), executor.WithAttempts(2))

	case entities.SelectionSearch:
		search := locator.TextSearch{
			Text:   field.Value,
			Option: w.catalog.Target(entities.RoleInstallerOption, field.Value),
			Items:  w.catalog.Target(entities.RoleDropdownItem, ""),
			Wrap:   list,
		}
		pick := func(ctx context.Context) (locator.Match, error) {
			return w.locator.SearchText(ctx, search)
		}
		trigger := w.catalog.Target(entities.RoleInstallerDropdown, field.Label)
		return w.executor.SelectOption(ctx, trigger, list, entities.RoleInstallerOption, pick, executor.WithAttempts(2))
	}

	return entities.AttemptResult{
		Err: entities.NewError(entities.UnexpectedCondition, entities.RoleFormItem,
			fmt.Errorf("unknown selection mode %q for %s", field.Mode, field.Label)),
	}
}

func (w *Workflow) awaitClosed(ctx context.Context) error {
	dialog := w.catalog.Target(entities.RoleDialog, "")
	return wait.Until(ctx, w.timing.ElementTimeout, w.timing.PollInterval, func(ctx context.Context) (bool, error) {
		return !w.locator.Present(ctx, dialog), nil
	})
}

// dismiss closes a dialog left open, best effort
func (w *Workflow) dismiss(ctx context.Context) {
	if !w.locator.Present(ctx, w.catalog.Target(entities.RoleDialog, "")) {
		return
	}
	res := w.executor.Click(ctx, w.catalog.Target(entities.RoleDialogClose, ""))
	if !res.Succeeded {
		w.logger.Warnf("⚠️ could not close dialog: %v", res.Err)
		return
	}
	if err := w.awaitClosed(ctx); err != nil {
		w.logger.Warnf("⚠️ dialog still open: %v", err)
	}
}

func (w *Workflow) settle(ctx context.Context) bool {
	return wait.Pause(ctx, w.timing.ActionSettle) == nil
}

// Repeat runs the workflow count times, pausing between cycles. A failed cycle is
// recorded and the next one still runs.
func (w *Workflow) Repeat(ctx context.Context, count int, pause time.Duration) entities.RunSummary {
	var summary entities.RunSummary

	for cycle := 1; cycle <= count; cycle++ {
		if ctx.Err() != nil {
			break
		}
		log := w.logger.WithFields(logrus.Fields{"cycle": cycle, "of": count})
		log.Info("🔁 authorization cycle")

		ok := w.Run(ctx)
		summary.Record(ok)
		if ok {
			log.Info("✅ cycle succeeded")
		} else {
			log.Error("❌ cycle failed")
			w.screenshots.Capture(ctx, fmt.Sprintf("authorization_failed_%d.png", cycle))
		}

		if cycle < count {
			log.Debugf("pausing %s before next cycle", pause)
			if err := wait.Pause(ctx, pause); err != nil {
				break
			}
		}
	}

	return summary
}
