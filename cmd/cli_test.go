package cmd

import (
	"errors"
	"os"
	"testing"

	"vsthost/internal/config"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPath string
	}{
		{"Defaults", nil, config.DefaultPluginPath()},
		{"Positional plugin path", []string{"/tmp/synth.so"}, "/tmp/synth.so"},
		{"Builtin instrument", []string{config.BuiltinSine}, config.BuiltinSine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			cfg, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			if cfg == nil {
				t.Fatal("expected a config")
			}
			if cfg.Plugin.Path != tt.wantPath {
				t.Errorf("plugin path = %q, want %q", cfg.Plugin.Path, tt.wantPath)
			}
			if cfg.Render.TotalBlocks != config.DefaultTotalBlocks {
				t.Errorf("total blocks = %d, want %d", cfg.Render.TotalBlocks, config.DefaultTotalBlocks)
			}
		})
	}
}

func TestParseArgsConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	content := "plugin:\n  path: builtin:sine\nrender:\n  block_size: 128\n"
	if err := os.WriteFile("config.yaml", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseArgs(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsBuiltin() || cfg.Render.BlockSize != 128 {
		t.Errorf("config file not applied: plugin %q, block size %d", cfg.Plugin.Path, cfg.Render.BlockSize)
	}

	cfg, err = ParseArgs([]string{"/opt/vst/piano.so"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Plugin.Path != "/opt/vst/piano.so" || cfg.Render.BlockSize != 128 {
		t.Errorf("argument did not override the file: %+v", cfg.Plugin)
	}
}

func TestParseArgsErrors(t *testing.T) {
	t.Run("Too many arguments", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if _, err := ParseArgs([]string{"a.so", "b.so"}); err == nil {
			t.Error("expected error for two plugin paths")
		}
	})

	t.Run("Unknown flag", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if _, err := ParseArgs([]string{"--device", "1"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})

	t.Run("Invalid config file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile("config.yaml", []byte("render:\n  block_size: 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := ParseArgs(nil)
		if !errors.Is(err, config.ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})
}

func TestParseArgsVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := ParseArgs([]string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected no config for --version, got %+v", cfg)
	}
}
