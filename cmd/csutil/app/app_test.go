package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/csutil/pkg/errors"
)

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	logger := zerolog.Nop()
	opts := []Option{WithLogger(&logger)}
	if config != nil {
		opts = append(opts, WithConfig(config))
	}
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t, nil)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_WithConfigNil verifies nil configs are rejected.
func TestApp_WithConfigNil(t *testing.T) {
	_, err := New("1.0.0", "", "", "", WithConfig(nil))
	if !errors.IsValidationError(err) {
		t.Errorf("New(WithConfig(nil)) error = %v, want validation error", err)
	}
}

// TestApp_Defaults verifies flag defaults come from the config.
func TestApp_Defaults(t *testing.T) {
	app := newTestApp(t, &Config{OrigStrip: 0, ImportedStrip: 3, Namespace: "alignments2D", Overwrite: true, Attribution: "lab"})

	d := app.Defaults()
	if d.OrigStrip != 0 || d.ImportedStrip != 3 {
		t.Errorf("strip defaults = %d/%d, want 0/3", d.OrigStrip, d.ImportedStrip)
	}
	if d.Namespace != "alignments2D" || !d.Overwrite || d.Attribution != "lab" {
		t.Errorf("Defaults() = %+v", d)
	}
}

// TestApp_Clock verifies the injected clock is used.
func TestApp_Clock(t *testing.T) {
	fixed := utc.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	logger := zerolog.Nop()
	app, err := New("dev", "", "", "", WithLogger(&logger), WithClock(func() utc.Time { return fixed }))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !app.Now().Time.Equal(fixed.Time) {
		t.Errorf("Now() = %v, want %v", app.Now(), fixed)
	}
}

// TestApp_Aligner verifies the aligner honours its options.
func TestApp_Aligner(t *testing.T) {
	app := newTestApp(t, nil)
	if _, err := app.Aligner(); err != nil {
		t.Errorf("Aligner() failed: %v", err)
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// TestRootCommand_Registers verifies every command is wired.
func TestRootCommand_Registers(t *testing.T) {
	root := newTestApp(t, nil).createRootCommand()

	for _, name := range []string{"transfer-alignments", "filter", "replace-metafile", "to-csv", "stat", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

// TestRootCommand_Version verifies the version command output.
func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, newTestApp(t, nil), "version", "-v")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "csutil 1.0.0") || !strings.Contains(out, "abc123") {
		t.Errorf("version output = %q", out)
	}
}

// TestRootCommand_InvalidFormat verifies --format is validated before running.
func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, newTestApp(t, nil), "version", "--format", "xml")
	if !errors.IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

// TestRootCommand_RequiredFlags verifies missing required flags fail.
func TestRootCommand_RequiredFlags(t *testing.T) {
	_, err := execute(t, newTestApp(t, nil), "transfer-alignments", "--orig-cs", "a.cs")
	if err == nil || !strings.Contains(err.Error(), "required flag") {
		t.Errorf("error = %v, want required flag error", err)
	}
}
