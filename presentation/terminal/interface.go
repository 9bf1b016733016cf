package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"dms_automation/application/agent"
	"dms_automation/application/authorization"
	"dms_automation/application/catalog"
	"dms_automation/application/executor"
	"dms_automation/application/locator"
	"dms_automation/application/login"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
	"dms_automation/infrastructure/browser"
	"dms_automation/infrastructure/captcha"
	"dms_automation/infrastructure/config"
	"dms_automation/infrastructure/logging"
	"dms_automation/infrastructure/security"
	"dms_automation/infrastructure/storage"
)

type TerminalInterface struct {
	cfg         config.Config
	agent       *agent.Agent
	browserCtrl interfaces.Browser
	screenshots interfaces.ScreenshotStore
	security    *security.SecurityLayer
	logger      *logrus.Logger
	logCloser   io.Closer
	out         io.Writer
}

// NewTerminalInterface - wires every component for one run. The browser is started
// last so that configuration problems never leave a browser behind.
func NewTerminalInterface(cfg config.Config, out io.Writer) (*TerminalInterface, error) {
	logger, runID, logCloser, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}, out)
	if err != nil {
		return nil, err
	}
	logger.WithField("run", runID).Debug("logger ready")

	cat, err := catalog.LoadFile(cfg.LocatorsFile)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to load locators: %w", err)
	}

	solver, err := captcha.New(captcha.Settings{
		Kind:        cfg.Solver,
		OCREndpoint: cfg.OCREndpoint,
		OpenAIKey:   cfg.OpenAIKey,
		OpenAIModel: cfg.OpenAIModel,
	}, logger)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to initialize captcha solver: %w", err)
	}

	launch := browser.DefaultLaunchOptions()
	launch.Headless = cfg.Headless
	launch.StatePath = cfg.StateFile
	launch.ChromeDriverPath = cfg.ChromeDriverPath
	launch.ChromeDriverPort = cfg.ChromeDriverPort

	browserCtrl, err := browser.New(cfg.Driver, launch, logger)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	timing := entities.DefaultTiming()
	timing.CyclePause = cfg.CyclePause

	securityLayer := security.NewSecurityLayer(logger, cfg.DryRun)
	screenshots := storage.NewScreenshotStore(browserCtrl, cfg.ScreenshotDir, logger)
	loc := locator.NewLocator(browserCtrl, timing, logger)
	exec := executor.NewExecutor(loc, screenshots, timing, logger)

	machine := login.NewMachine(login.Deps{
		Browser:     browserCtrl,
		Locator:     loc,
		Executor:    exec,
		Catalog:     cat,
		Solver:      solver,
		Screenshots: screenshots,
		Security:    securityLayer,
		Timing:      timing,
		Logger:      logger,
	}, cfg.LoginSignature)

	workflow := authorization.NewWorkflow(authorization.Deps{
		Locator:     loc,
		Executor:    exec,
		Catalog:     cat,
		Screenshots: screenshots,
		Security:    securityLayer,
		Timing:      timing,
		Logger:      logger,
	}, authorization.Form(cfg.AuthType, cfg.GranteeRole, cfg.Installer, cfg.Duration))

	ag := agent.NewAgent(agent.Deps{
		Browser:     browserCtrl,
		Locator:     loc,
		Catalog:     cat,
		Login:       machine,
		Workflow:    workflow,
		Screenshots: screenshots,
		Timing:      timing,
		Logger:      logger,
	}, agent.Options{
		TargetURL:     cfg.TargetURL,
		Signature:     cfg.LoginSignature,
		Credentials:   entities.Credentials{Username: cfg.Username, Password: cfg.Password},
		LoginAttempts: cfg.LoginAttempts,
		Repeat:        cfg.Repeat,
	})

	return &TerminalInterface{
		cfg:         cfg,
		agent:       ag,
		browserCtrl: browserCtrl,
		screenshots: screenshots,
		security:    securityLayer,
		logger:      logger,
		logCloser:   logCloser,
		out:         out,
	}, nil
}

// Run - executes the run and prints the statistics
func (t *TerminalInterface) Run(ctx context.Context) error {
	PrintBanner(t.out, t.cfg, t.security)

	summary, err := t.agent.Run(ctx)
	if err != nil {
		t.logger.Errorf("❌ run aborted: %v", err)
		if ctx.Err() == nil && !entities.IsKind(err, entities.VerificationFailed) {
			t.screenshots.Capture(ctx, "test_error.png")
		}
		if summary.Attempted > 0 {
			PrintSummary(t.out, summary)
		}
		return err
	}

	PrintSummary(t.out, summary)
	return nil
}

func (t *TerminalInterface) Close() error {
	defer t.logCloser.Close()
	if err := t.browserCtrl.Close(); err != nil {
		t.logger.Warnf("failed to close browser: %v", err)
		return err
	}
	t.logger.Info("✅ browser closed")
	return nil
}
