package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestEnvFileAppliedOnFirstGetterCall(t *testing.T) {
	dir := t.TempDir()
	envFile := "CONFIG_TEST_PORT=9999\nCONFIG_TEST_SECRET=from-env-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("CONFIG_TEST_PORT")
		os.Unsetenv("CONFIG_TEST_SECRET")
	})

	os.Unsetenv("CONFIG_TEST_PORT")
	os.Unsetenv("CONFIG_TEST_SECRET")

	// The package-level Once already fired during this test binary's
	// var initialization; reset it so the getter must load the file.
	envLoaded = sync.Once{}

	if got := getEnvString("CONFIG_TEST_SECRET", "fallback"); got != "from-env-file" {
		t.Fatalf("CONFIG_TEST_SECRET from .env not applied: got %q", got)
	}
	if got := getEnvInt("CONFIG_TEST_PORT", 8080); got != 9999 {
		t.Fatalf("CONFIG_TEST_PORT from .env not applied: got %d", got)
	}
}

func TestEnvFileDoesNotOverrideExistingEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CONFIG_TEST_KEEP=file\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("CONFIG_TEST_KEEP")
	})

	os.Setenv("CONFIG_TEST_KEEP", "process")
	envLoaded = sync.Once{}

	if got := getEnvString("CONFIG_TEST_KEEP", "fallback"); got != "process" {
		t.Fatalf("process env must win over .env: got %q", got)
	}
}
