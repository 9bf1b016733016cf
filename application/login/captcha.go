package login

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode"
)

// decodeDataURL returns the bytes of a base64 image source, with or without a data: prefix
func decodeDataURL(src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("empty image source")
	}
	if i := strings.Index(src, ","); i >= 0 {
		src = src[i+1:]
	}
	src = strings.TrimSpace(src)

	data, err := base64.StdEncoding.DecodeString(src)
	if err != nil {
		// some consoles drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(src, "="))
	}
	return data, err
}

// sanitize keeps only ASCII letters and digits of a recognized captcha
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, text)
}
