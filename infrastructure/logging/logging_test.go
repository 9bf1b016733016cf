package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, runID, closer, err := New(Options{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	_, err = uuid.Parse(runID)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("cycle", 1).Info("cycle started")
	assert.Contains(t, buf.String(), "run="+runID)
	assert.Contains(t, buf.String(), "cycle=1")
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms.log")
	var buf bytes.Buffer

	logger, _, closer, err := New(Options{File: path}, &buf)
	require.NoError(t, err)
	logger.Info("login succeeded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "login succeeded")
	assert.Contains(t, buf.String(), "login succeeded")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, _, err := New(Options{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
