package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.OrigStrip != constants.DefaultOrigStripTokens {
		t.Errorf("OrigStrip = %d, want %d", config.OrigStrip, constants.DefaultOrigStripTokens)
	}
	if config.ImportedStrip != constants.DefaultImportedStripTokens {
		t.Errorf("ImportedStrip = %d, want %d", config.ImportedStrip, constants.DefaultImportedStripTokens)
	}
	if config.Namespace != constants.AlignmentsNamespace {
		t.Errorf("Namespace = %s, want %s", config.Namespace, constants.AlignmentsNamespace)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies CSUTIL_ variables are read.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CSUTIL_IMPORTED_STRIP", "1")
	t.Setenv("CSUTIL_OVERWRITE", "true")
	t.Setenv("CSUTIL_FORMAT", "json")
	t.Setenv("CSUTIL_VERBOSE", "true")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.ImportedStrip != 1 {
		t.Errorf("ImportedStrip = %d, want 1", config.ImportedStrip)
	}
	if !config.Overwrite {
		t.Error("CSUTIL_OVERWRITE not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if !config.Verbose {
		t.Error("CSUTIL_VERBOSE not loaded")
	}
}

// TestConfig_EnvFile verifies .env files are loaded.
func TestConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CSUTIL_ATTRIBUTION", "")
	if err := os.Unsetenv("CSUTIL_ATTRIBUTION"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CSUTIL_ATTRIBUTION=from env file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CSUTIL_ATTRIBUTION") })

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Attribution != "from env file" {
		t.Errorf("Attribution = %q, want %q", config.Attribution, "from env file")
	}
}

// TestConfig_File verifies an explicit config file.
func TestConfig_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "csutil.yaml")
	data := "orig_strip: 0\nnamespace: alignments2D\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.OrigStrip != 0 {
		t.Errorf("OrigStrip = %d, want 0", config.OrigStrip)
	}
	if config.Namespace != "alignments2D" {
		t.Errorf("Namespace = %s, want alignments2D", config.Namespace)
	}
	if config.EnvLogLevel != "debug" {
		t.Errorf("EnvLogLevel = %s, want debug", config.EnvLogLevel)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestConfig_Errors verifies bad config files are reported.
func TestConfig_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("missing explicit file: error = %v, want ConfigError", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("orig_strip: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); !errors.As(err, &cfgErr) {
		t.Errorf("negative strip: error = %v, want ConfigError", err)
	}
}

// TestConfigFlag verifies --config is found before flag parsing.
func TestConfigFlag(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"stat", "--config", "a.yaml"}, "a.yaml"},
		{[]string{"--config=b.yaml", "stat"}, "b.yaml"},
		{[]string{"stat", "--", "--config", "c.yaml"}, ""},
		{[]string{"stat", "--config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := configFlag(tt.args); got != tt.want {
			t.Errorf("configFlag(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
