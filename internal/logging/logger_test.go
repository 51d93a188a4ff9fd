package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersBeforeInit(t *testing.T) {
	orig := Logger
	Logger = nil
	defer func() { Logger = orig }()

	assert.NotPanics(t, func() {
		Info("info")
		Debug("debug")
		Warn("warn")
		Error("error")
	})
	assert.Nil(t, WithPrefix("x"))
}

func TestInitWritesAtLevel(t *testing.T) {
	orig := Logger
	defer func() { Logger = orig }()

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "warn", Writer: &buf}))

	Info("hidden message")
	Warn("fetch failed", "endpoint", "http://example.com/rss")

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "endpoint")
	assert.Contains(t, out, "http://example.com/rss")
}

func TestInitRejectsBadLevel(t *testing.T) {
	orig := Logger
	defer func() { Logger = orig }()

	assert.Error(t, Init(Options{Level: "loud"}))
}
