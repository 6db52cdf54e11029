// Copyright © 2024 drax contributors.

package physics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettingsValidates(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings() should validate cleanly: %v", err)
	}
}

func TestValidateRejectsNonPositiveIterations(t *testing.T) {
	s := DefaultSettings()
	s.VelocityIterations = 0
	if err := s.Validate(); err == nil {
		t.Errorf("expected an error for zero VelocityIterations")
	}
}

func TestValidateRejectsNegativeSleepTolerance(t *testing.T) {
	s := DefaultSettings()
	s.LinearSleepTolerance = -1
	if err := s.Validate(); err == nil {
		t.Errorf("expected an error for negative LinearSleepTolerance")
	}
}

func TestSaveAndLoadSettingsYAMLRoundTrips(t *testing.T) {
	s := DefaultSettings()
	s.VelocityIterations = 12
	s.Gravity = Vec2YAML{X: 1, Y: -20}

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := s.SaveYAML(path); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	loaded, err := LoadSettingsYAML(path)
	if err != nil {
		t.Fatalf("LoadSettingsYAML: %v", err)
	}
	if loaded.VelocityIterations != 12 {
		t.Errorf("VelocityIterations = %d, want 12", loaded.VelocityIterations)
	}
	if loaded.Gravity.X != 1 || loaded.Gravity.Y != -20 {
		t.Errorf("Gravity = %+v, want {1 -20}", loaded.Gravity)
	}
}

func TestLoadSettingsYAMLPartialOverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("velocityIterations: 99\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := LoadSettingsYAML(path)
	if err != nil {
		t.Fatalf("LoadSettingsYAML: %v", err)
	}
	if loaded.VelocityIterations != 99 {
		t.Errorf("VelocityIterations = %d, want 99", loaded.VelocityIterations)
	}
	if loaded.PositionIterations != defaultPositionIterations {
		t.Errorf("PositionIterations = %d, want untouched default %d", loaded.PositionIterations, defaultPositionIterations)
	}
}

func TestLoadSettingsYAMLRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(path, []byte("velocityIterations: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadSettingsYAML(path); err == nil {
		t.Errorf("expected an error loading a settings file with an invalid override")
	}
}
