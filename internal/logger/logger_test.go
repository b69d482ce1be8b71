package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestPrettyHandler(t *testing.T) {
	t.Run("filters records below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

		l.Info("hidden")
		l.Warn("shown", "provider", "gemini")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[WARN]  shown provider=gemini")
	})

	t.Run("prefixes grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		l.WithGroup("request").With("model", "gemini-2.5-pro").Debug("sending", "status", 200)

		assert.Contains(t, buf.String(), "request.model=gemini-2.5-pro")
		assert.Contains(t, buf.String(), "request.status=200")
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), l)
	ctx = With(ctx, "provider", "openrouter")

	Error(ctx, "request failed", errors.New("boom"))

	assert.Contains(t, buf.String(), "[ERROR] request failed")
	assert.Contains(t, buf.String(), "provider=openrouter")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestInitialize(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Run("verbose enables info on the terminal handler", func(t *testing.T) {
		var buf bytes.Buffer
		closer := Initialize(Options{Verbose: true, Output: &buf})
		defer closer.Close()

		slog.Info("generating")
		slog.Debug("not shown")

		assert.Contains(t, buf.String(), "generating")
		assert.NotContains(t, buf.String(), "not shown")
	})

	t.Run("file option also writes json records", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "diffmate.log")

		closer := Initialize(Options{Output: &buf, File: path})
		slog.Debug("debug only in file", "provider", "gemini")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"debug only in file"`)
		assert.Contains(t, string(data), `"provider":"gemini"`)
		assert.Empty(t, buf.String())
	})

	t.Run("warnings reach both the console and the file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "diffmate.log")

		closer := Initialize(Options{Output: &buf, File: path})
		slog.With("provider", "openrouter").Warn("fallback failed")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"fallback failed"`)
		assert.Contains(t, string(data), `"provider":"openrouter"`)
		assert.Contains(t, buf.String(), "fallback failed")
		assert.Contains(t, buf.String(), "provider=openrouter")
	})
}
