package interfaces

import "context"

// CaptchaSolver recognizes the text of a captcha image.
// An empty result means nothing was recognized.
type CaptchaSolver interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
