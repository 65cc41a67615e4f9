package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/vcsstamp/internal/adapters/logger"
)

func TestPlainHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := logger.NewPlainHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPlainHandler_WithAttrsAndGroup(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPlainHandler(buf, nil)).
		With("cache", "vcs_data").
		WithGroup("vcs")

	lg.Info("resolved", "branch", "main")

	g := goldie.New(t)
	g.Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))

	lg.Warn("HEAD is detached")

	assert.Equal(t, "! HEAD is detached\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelError))
}

func TestPlainHandler_NestedGroups(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPlainHandler(buf, nil)).
		With("cache", "vcs_data").
		WithGroup("vcs").
		With("tool", "git").
		WithGroup("head")

	lg.Info("resolved", "branch", "main")

	assert.Equal(t, "· resolved cache=vcs_data vcs.tool=git vcs.head.branch=main\n", buf.String())
}

func TestPlainHandler_SiblingGroupsDoNotShareState(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(logger.NewPlainHandler(buf, nil)).WithGroup("vcs")

	base.WithGroup("head").Info("first", "branch", "main")
	base.WithGroup("cache").Info("second", "path", "vcs_data")

	assert.Equal(t, "· first vcs.head.branch=main\n· second vcs.cache.path=vcs_data\n", buf.String())
}
