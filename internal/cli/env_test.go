package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLoader_LoadsFlagPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	if err := os.WriteFile(path, []byte("WIRSUCHEN_TEST_VALUE=from-flag\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(OverrideEnvVar, "")
	t.Setenv("WIRSUCHEN_TEST_VALUE", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, ".env", "")
	if err := fs.Parse([]string{"--env", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: %q", loaded)
	}
	if got := os.Getenv("WIRSUCHEN_TEST_VALUE"); got != "from-flag" {
		t.Fatalf("unexpected env value: %q", got)
	}
}

func TestEnvLoader_MissingFileFails(t *testing.T) {
	t.Setenv(OverrideEnvVar, "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(t.TempDir(), "missing.env"), "")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected missing env file to fail")
	}
}
