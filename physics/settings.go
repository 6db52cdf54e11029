// Copyright © 2024 drax contributors.

package physics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings collects every tunable of the simulation loop: iteration
// counts, sleep thresholds, and the continuous-collision thresholds. A
// zero-value Settings is not usable; construct with DefaultSettings and
// override individual fields, or load one from YAML with
// LoadSettingsYAML.
type Settings struct {
	VelocityIterations int     `yaml:"velocityIterations"`
	PositionIterations int     `yaml:"positionIterations"`
	MaxLinearVelocity  float64 `yaml:"maxLinearVelocity"`
	MaxAngularVelocity float64 `yaml:"maxAngularVelocity"`

	LinearSleepTolerance  float64 `yaml:"linearSleepTolerance"`
	AngularSleepTolerance float64 `yaml:"angularSleepTolerance"`
	TimeToSleep           float64 `yaml:"timeToSleep"`

	ContinuousEnabled bool    `yaml:"continuousEnabled"`
	ToiEpsilon        float64 `yaml:"toiEpsilon"`
	ToiMaxIterations  int     `yaml:"toiMaxIterations"`

	// RestitutionVelocityThreshold is the minimum closing speed a contact
	// point must have before restitution applies at all; below it,
	// bounces are suppressed to avoid jitter on resting contacts.
	RestitutionVelocityThreshold float64 `yaml:"restitutionVelocityThreshold"`

	Gravity Vec2YAML `yaml:"gravity"`
}

// Vec2YAML is a YAML-friendly mirror of geo.Vec2 (which has no yaml tags
// of its own, since the geo package has no YAML dependency).
type Vec2YAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DefaultSettings returns the engine's standard tuning, the same
// ballpark defaults most 2D Sequential-Impulses engines ship with.
func DefaultSettings() *Settings {
	return &Settings{
		VelocityIterations: defaultVelocityIterations,
		PositionIterations: defaultPositionIterations,
		MaxLinearVelocity:  400,
		MaxAngularVelocity: 4 * 3.14159265358979,

		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2.0 / 180.0 * 3.14159265358979,
		TimeToSleep:           0.5,

		ContinuousEnabled: true,
		ToiEpsilon:        1e-4,
		ToiMaxIterations:  20,

		RestitutionVelocityThreshold: 1.0,

		Gravity: Vec2YAML{X: 0, Y: -10},
	}
}

// Validate reports the first invalid field it finds; all iteration
// counts and tolerances must be positive, sleep thresholds must be
// non-negative.
func (s *Settings) Validate() error {
	switch {
	case s.VelocityIterations <= 0:
		return fmt.Errorf("physics: settings.VelocityIterations must be positive, got %d", s.VelocityIterations)
	case s.PositionIterations <= 0:
		return fmt.Errorf("physics: settings.PositionIterations must be positive, got %d", s.PositionIterations)
	case s.MaxLinearVelocity <= 0:
		return fmt.Errorf("physics: settings.MaxLinearVelocity must be positive, got %f", s.MaxLinearVelocity)
	case s.MaxAngularVelocity <= 0:
		return fmt.Errorf("physics: settings.MaxAngularVelocity must be positive, got %f", s.MaxAngularVelocity)
	case s.LinearSleepTolerance < 0:
		return fmt.Errorf("physics: settings.LinearSleepTolerance must not be negative, got %f", s.LinearSleepTolerance)
	case s.AngularSleepTolerance < 0:
		return fmt.Errorf("physics: settings.AngularSleepTolerance must not be negative, got %f", s.AngularSleepTolerance)
	case s.TimeToSleep < 0:
		return fmt.Errorf("physics: settings.TimeToSleep must not be negative, got %f", s.TimeToSleep)
	case s.ToiMaxIterations <= 0:
		return fmt.Errorf("physics: settings.ToiMaxIterations must be positive, got %d", s.ToiMaxIterations)
	}
	return nil
}

// LoadSettingsYAML reads a Settings document from path, starting from
// DefaultSettings so a partial YAML file only needs to name the fields
// it overrides.
func LoadSettingsYAML(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("physics: reading settings file: %w", err)
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("physics: parsing settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveYAML writes s to path in YAML form, for round-tripping a tuned
// configuration back to disk.
func (s *Settings) SaveYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("physics: encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("physics: writing settings file: %w", err)
	}
	return nil
}
