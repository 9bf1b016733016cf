package captcha

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/interfaces"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel    = "gpt-4o"

	visionPrompt = "This image is a login captcha. Reply with the characters it shows and nothing else. " +
		"The captcha contains only letters and digits."
)

// OpenAIVision reads captchas with a vision capable chat model
type OpenAIVision struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   *logrus.Logger
}

// NewOpenAIVision - creates a vision solver; an empty model selects gpt-4o
func NewOpenAIVision(apiKey, model string, logger *logrus.Logger) (*OpenAIVision, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIVision{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultOpenAIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

func (c *OpenAIVision) Recognize(ctx context.Context, image []byte) (string, error) {
	data, mime, err := Normalize(image)
	if err != nil {
		return "", err
	}

	requestBody := chatRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   16,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: visionPrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
				}},
			},
		}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var apiResponse chatResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", err
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	result := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
	c.logger.WithField("solver", "openai").Debugf("recognized %q", result)
	return result, nil
}

// API structures

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var _ interfaces.CaptchaSolver = (*OpenAIVision)(nil)
