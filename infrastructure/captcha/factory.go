package captcha

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/interfaces"
)

// Solvers
const (
	SolverOCRServer = "ocr-server"
	SolverOpenAI    = "openai"
)

// Settings - what the solver factory needs
type Settings struct {
	Kind        string
	OCREndpoint string
	OpenAIKey   string
	OpenAIModel string
}

// New - creates the configured captcha solver
func New(s Settings, logger *logrus.Logger) (interfaces.CaptchaSolver, error) {
	switch s.Kind {
	case SolverOCRServer, "":
		if s.OCREndpoint == "" {
			return nil, fmt.Errorf("ocr server endpoint is not set")
		}
		return NewOCRServer(s.OCREndpoint, logger), nil
	case SolverOpenAI:
		return NewOpenAIVision(s.OpenAIKey, s.OpenAIModel, logger)
	default:
		return nil, fmt.Errorf("unknown captcha solver %q", s.Kind)
	}
}
