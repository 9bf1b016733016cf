// Package captcha recognizes login captchas through external recognition services.
package captcha

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/interfaces"
)

// OCRServer talks to a ddddocr HTTP server: the image goes up base64 encoded, the
// recognized text comes back as the plain response body.
type OCRServer struct {
	endpoint string
	client   *http.Client
	logger   *logrus.Logger
}

// NewOCRServer - creates a client for the server at endpoint, e.g. http://127.0.0.1:9898
func NewOCRServer(endpoint string, logger *logrus.Logger) *OCRServer {
	return &OCRServer{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (s *OCRServer) Recognize(ctx context.Context, image []byte) (string, error) {
	data, _, err := Normalize(image)
	if err != nil {
		return "", err
	}

	body := base64.StdEncoding.EncodeToString(data)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/ocr/b64/text", strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr server unreachable: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr server error: %s - %s", resp.Status, string(bytes.TrimSpace(text)))
	}

	result := strings.TrimSpace(string(text))
	s.logger.WithField("solver", "ocr-server").Debugf("recognized %q", result)
	return result, nil
}

var _ interfaces.CaptchaSolver = (*OCRServer)(nil)
