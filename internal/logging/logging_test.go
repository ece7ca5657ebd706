package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		gt.NoError(t, err)
		gt.Value(t, got).Equal(want)
	}
	_, err := ParseLevel("loud")
	gt.Value(t, err).NotNil()
}

func TestConsoleLogger_RedactsAuthorization(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Level: "debug", Console: &buf})
	gt.NoError(t, err).Required()
	defer closeFn()

	l.Debug("api request", "authorization", "Bearer s3cr3t", "url", "http://x/customers")
	out := buf.String()
	gt.String(t, out).Contains("api request")
	gt.String(t, out).Contains("http://x/customers")
	gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("s3cr3t"))).False()
}

func TestFileLogger_WritesJSONAndRedactsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tourdesk.log")
	l, closeFn, err := New(Options{Level: "info", File: path})
	gt.NoError(t, err).Required()

	type creds struct {
		User  string
		Token string `masq:"secret"`
	}
	l.Info("login", "creds", creds{User: "ops", Token: "abc123"}, "token", "abc123")
	l.Debug("hidden")
	closeFn()

	b, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.String(t, string(b)).Contains(`"msg":"login"`)
	gt.Bool(t, bytes.Contains(b, []byte("abc123"))).False()
	gt.Bool(t, bytes.Contains(b, []byte("hidden"))).False()
}

func TestQuietDiscards(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Quiet: true, Console: &buf})
	gt.NoError(t, err).Required()
	l.Error("nothing")
	gt.Value(t, buf.Len()).Equal(0)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l, _, _ := New(Options{Console: &buf})
	ctx := With(context.Background(), l)
	From(ctx).Info("from ctx")
	gt.String(t, buf.String()).Contains("from ctx")
	gt.Value(t, From(context.Background())).Equal(Default())
}
