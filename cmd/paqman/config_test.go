package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/paqman/internal/config"
	"github.com/ZebulonRouseFrantzich/paqman/internal/testutil"
)

func TestRunConfigInit(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Chdir(t.TempDir())

	if err := runConfigInit(nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}

	data, err := os.ReadFile(config.DefaultFileName)
	if err != nil {
		t.Fatalf("read generated config: %v", err)
	}
	if !strings.Contains(string(data), "paqman = {") {
		t.Error("generated config missing paqman table")
	}

	// A second init must refuse to clobber the file
	err = runConfigInit(nil)
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want already-exists message", err)
	}

	// --force overwrites
	if err := runConfigInit([]string{"--force"}); err != nil {
		t.Errorf("runConfigInit(--force) error = %v", err)
	}
}

func TestRunConfigInit_UnknownFlag(t *testing.T) {
	err := runConfigInit([]string{"--bogus"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown option") {
		t.Errorf("error = %v, want unknown option", err)
	}
}

func TestRunConfigShow(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Chdir(t.TempDir())

	t.Run("no config", func(t *testing.T) {
		if err := runConfigShow(nil); err != nil {
			t.Errorf("runConfigShow() error = %v", err)
		}
	})

	t.Run("explicit config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "paqman.lua")
		content := `paqman = { platforms = { "8B41" } }`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if err := runConfigShow([]string{"--config", path}); err != nil {
			t.Errorf("runConfigShow(--config) error = %v", err)
		}
	})

	t.Run("broken config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "paqman.lua")
		if err := os.WriteFile(path, []byte("paqman = ("), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if err := runConfigShow([]string{"--config", path}); err == nil {
			t.Error("expected error for broken config")
		}
	})
}
