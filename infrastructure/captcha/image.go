package captcha

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Normalize returns an image both solvers accept. PNG and JPEG pass through untouched,
// other formats the console may serve (gif, bmp, webp) are re-encoded as PNG.
func Normalize(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode captcha image: %w", err)
	}

	switch format {
	case "png":
		return data, "image/png", nil
	case "jpeg":
		return data, "image/jpeg", nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode %s captcha as png: %w", format, err)
	}
	return buf.Bytes(), "image/png", nil
}
