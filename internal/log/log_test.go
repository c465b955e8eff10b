package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
}

func TestFilteringHandlerDropsDisabledSections(t *testing.T) {
	EnableSections("resolver")
	defer EnableSections("resolver", "decl")

	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.With("section", "cache").Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("section", "resolver").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFilteringHandlerSectionOnRecord(t *testing.T) {
	EnableSections("signature")
	defer EnableSections("resolver", "decl")

	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.Info("nope")
	assert.Empty(t, buf.String())
	logger.Info("yes", "section", "signature")
	assert.Contains(t, buf.String(), "yes")
}

func TestFilteringHandlerAlwaysShowsWarnings(t *testing.T) {
	EnableSections()
	defer EnableSections("resolver", "decl")

	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)
	logger.With("section", "cache").Warn("inconsistent")
	assert.Contains(t, buf.String(), "inconsistent")
}
