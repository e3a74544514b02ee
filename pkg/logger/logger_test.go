package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug"))
	assert.Error(t, Init("loud"))
	require.NoError(t, Init("info"))
}

func TestNewSublogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, Init("info"))

	NewSublogger("host").WithField("listing", "abc").Info("created")

	out := buf.String()
	assert.Contains(t, out, "module=modelmarket.host")
	assert.Contains(t, out, "listing=abc")
	assert.Contains(t, out, "created")
}
