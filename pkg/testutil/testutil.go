package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// CreateFile creates a file with the given content in the specified directory.
// Missing parent directories are created. It fails the test on error.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// Environment is the isolated home of a test.
type Environment struct {
	ConfigHome string
	StateHome  string
}

// ConfigFile is where fpm looks for the user config in this environment.
func (e *Environment) ConfigFile() string {
	return filepath.Join(e.ConfigHome, "fpm", "config.toml")
}

// IsolateEnv points the XDG directories at a temporary root, disables
// colors and clears every FPM_ variable for the duration of the test.
func IsolateEnv(t *testing.T) *Environment {
	t.Helper()

	root := t.TempDir()
	env := &Environment{
		ConfigHome: filepath.Join(root, "config"),
		StateHome:  filepath.Join(root, "state"),
	}
	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	t.Setenv("NO_COLOR", "1")

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "FPM_") {
			continue
		}
		// Setenv registers the restore; the variable must then be absent.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Failed to unset %s: %v", key, err)
		}
	}
	return env
}

// CaptureLogger returns a trace level logger writing JSON lines into the
// returned buffer. The global level is lowered until the test ends.
func CaptureLogger(t *testing.T) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	return zerolog.New(&buf).Level(zerolog.TraceLevel), &buf
}
