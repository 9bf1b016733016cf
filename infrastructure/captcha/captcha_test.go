package captcha

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNormalizePassesPNGThrough(t *testing.T) {
	data := encodePNG(t)

	out, mime, err := Normalize(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, data, out)
}

func TestNormalizeReencodes(t *testing.T) {
	var gifBuf, bmpBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, testImage(), nil))
	require.NoError(t, bmp.Encode(&bmpBuf, testImage()))

	for name, data := range map[string][]byte{"gif": gifBuf.Bytes(), "bmp": bmpBuf.Bytes()} {
		out, mime, err := Normalize(data)
		require.NoError(t, err, name)
		assert.Equal(t, "image/png", mime, name)

		_, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err, name)
		assert.Equal(t, "png", format, name)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, _, err := Normalize([]byte("not an image"))
	assert.Error(t, err)
}

func TestOCRServerRecognize(t *testing.T) {
	data := encodePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ocr/b64/text", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		require.NoError(t, err)
		assert.Equal(t, data, decoded)

		io.WriteString(w, " k7X2\n")
	}))
	defer srv.Close()

	text, err := NewOCRServer(srv.URL+"/", quietLogger()).Recognize(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "k7X2", text)
}

func TestOCRServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOCRServer(srv.URL, quietLogger()).Recognize(context.Background(), encodePNG(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestOpenAIVisionRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		image := req.Messages[0].Content[1]
		require.NotNil(t, image.ImageURL)
		assert.True(t, strings.HasPrefix(image.ImageURL.URL, "data:image/png;base64,"))

		io.WriteString(w, `{"choices":[{"message":{"content":" 9xQ4 "}}]}`)
	}))
	defer srv.Close()

	solver, err := NewOpenAIVision("sk-test", "", quietLogger())
	require.NoError(t, err)
	solver.endpoint = srv.URL

	text, err := solver.Recognize(context.Background(), encodePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "9xQ4", text)
}

func TestOpenAIVisionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	solver, err := NewOpenAIVision("sk-test", "gpt-4o-mini", quietLogger())
	require.NoError(t, err)
	solver.endpoint = srv.URL

	_, err = solver.Recognize(context.Background(), encodePNG(t))
	assert.Error(t, err)
}

func TestNewSolver(t *testing.T) {
	_, err := New(Settings{Kind: SolverOCRServer}, quietLogger())
	assert.Error(t, err)

	_, err = New(Settings{Kind: SolverOpenAI}, quietLogger())
	assert.Error(t, err)

	_, err = New(Settings{Kind: "tesseract"}, quietLogger())
	assert.Error(t, err)

	s, err := New(Settings{OCREndpoint: "http://127.0.0.1:9898"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &OCRServer{}, s)
}
