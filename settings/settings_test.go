package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tallworlds/cubic/world"
)

func TestSaveAndLoadDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected error when the file already exists")
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultSettings()
	if s.World.Dimension != def.World.Dimension || s.World.UpdateRadius != def.World.UpdateRadius {
		t.Fatalf("loaded world settings %+v, want %+v", s.World, def.World)
	}
	if s.Debug.LightUpdates || s.Debug.Tools {
		t.Fatalf("debug switches should default to off")
	}
	dim, err := s.Dimension()
	if err != nil || dim != world.Tall {
		t.Fatalf("Dimension = %v, %v, want Tall", dim, err)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	data := []byte("[World]\nDimension = \"Legacy\"\n\n[Debug]\nLightUpdates = true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.World.Dimension != "Legacy" || !s.Debug.LightUpdates {
		t.Fatalf("file values not applied: %+v", s)
	}
	if s.World.UpdateRadius != 32 || s.Storage.Path != "cubes" {
		t.Fatalf("defaults not kept for missing fields: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[World]\nDimension = \"Nether\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown dimension")
	}
}
