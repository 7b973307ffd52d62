// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package stage is the headless in-process world: it loads a scenario file,
// moves actor bodies across a flat playable area, renders speech to the log
// and reports actors that come within range of each other.
package stage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

// CodeInvalidScenario is the error code for any scenario load failure.
const CodeInvalidScenario = "SCENARIO_INVALID"

// VersionConstraint is the range of scenario format versions this build reads.
const VersionConstraint = ">=1.0.0, <2.0.0"

// Scenario is the on-disk description of a household.
type Scenario struct {
	Version     string         `yaml:"version" json:"version" jsonschema:"minLength=1,description=Scenario format version (semver)"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty" jsonschema:"description=General description of the scene"`
	TimeScale   float64        `yaml:"time_scale,omitempty" json:"time_scale,omitempty" jsonschema:"minimum=0,description=World seconds per wall-clock second"`
	StartTime   string         `yaml:"start_time,omitempty" json:"start_time,omitempty" jsonschema:"format=date-time"`
	Bounds      world.Rect     `yaml:"bounds" json:"bounds"`
	Locations   []LocationSpec `yaml:"locations,omitempty" json:"locations,omitempty"`
	Actors      []ActorSpec    `yaml:"actors" json:"actors" jsonschema:"minItems=1"`
}

// LocationSpec declares one registered location.
type LocationSpec struct {
	Name     string             `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Type     world.LocationType `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"description=bathroom and bedroom have access rules; anything else is generic"`
	Position world.Point        `yaml:"position" json:"position"`
	Radius   float64            `yaml:"radius,omitempty" json:"radius,omitempty" jsonschema:"minimum=0"`
	Owner    string             `yaml:"owner,omitempty" json:"owner,omitempty" jsonschema:"description=Actor id of the bedroom owner"`
	Notes    []string           `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ActorSpec declares one actor and its starting state.
type ActorSpec struct {
	ID             string       `yaml:"id" json:"id" jsonschema:"minLength=1"`
	Name           string       `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Position       world.Point  `yaml:"position" json:"position"`
	Speed          float64      `yaml:"speed,omitempty" json:"speed,omitempty" jsonschema:"minimum=0,description=Units per second"`
	DecisionDriven *bool        `yaml:"decision_driven,omitempty" json:"decision_driven,omitempty" jsonschema:"description=Defaults to true; false for player-controlled bodies"`
	Emotion        *EmotionSpec `yaml:"emotion,omitempty" json:"emotion,omitempty"`
}

// EmotionSpec is the starting emotional state of an actor.
type EmotionSpec struct {
	Primary   string   `yaml:"primary" json:"primary"`
	Intensity float64  `yaml:"intensity" json:"intensity" jsonschema:"minimum=0,maximum=1"`
	MoodTags  []string `yaml:"mood_tags,omitempty" json:"mood_tags,omitempty"`
}

// ErrInvalid creates a scenario error carrying the problem list.
func ErrInvalid(problems ...string) error {
	return oops.Code(CodeInvalidScenario).
		With("problems", problems).
		Errorf("invalid scenario: %s", strings.Join(problems, "; "))
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, oops.Code(CodeInvalidScenario).With("path", path).Wrapf(err, "read scenario")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return s, nil
}

// Parse validates data against the schema, decodes it and runs the
// cross-reference checks the schema cannot express.
func Parse(data []byte) (*Scenario, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, ErrInvalid("decode: " + err.Error())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks version compatibility, uniqueness and cross references.
func (s *Scenario) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if err := checkVersion(s.Version); err != nil {
		add("%v", err)
	}
	if err := s.Bounds.Validate(); err != nil {
		add("%v", err)
	} else if s.Bounds.IsZero() {
		add("bounds: must enclose a non-empty area")
	}
	if _, err := s.Start(); err != nil {
		add("start_time: %v", err)
	}

	ids := make(map[string]bool, len(s.Actors))
	names := make(map[string]bool, len(s.Actors))
	for i, a := range s.Actors {
		if err := world.ValidateID(a.ID); err != nil {
			add("actors[%d]: %v", i, err)
		}
		if err := world.ValidateName(a.Name); err != nil {
			add("actors[%d]: %v", i, err)
		}
		if ids[a.ID] {
			add("actors[%d]: duplicate id %q", i, a.ID)
		}
		ids[a.ID] = true
		if key := strings.ToLower(a.Name); names[key] {
			add("actors[%d]: duplicate name %q", i, a.Name)
		} else {
			names[key] = true
		}
		if !s.Bounds.Contains(a.Position) {
			add("actors[%d]: position %s outside bounds", i, a.Position)
		}
		if a.Emotion != nil {
			if err := a.emotion().Validate(); err != nil {
				add("actors[%d].emotion: %v", i, err)
			}
		}
	}

	locs := make(map[string]bool, len(s.Locations))
	for i, l := range s.Locations {
		if _, err := l.location(); err != nil {
			add("locations[%d]: %v", i, err)
		}
		if locs[l.Name] {
			add("locations[%d]: duplicate name %q", i, l.Name)
		}
		locs[l.Name] = true
		if !s.Bounds.Contains(l.Position) {
			add("locations[%d]: position %s outside bounds", i, l.Position)
		}
		if l.Owner != "" && !ids[l.Owner] {
			add("locations[%d]: owner %q is not a declared actor", i, l.Owner)
		}
	}

	if len(problems) > 0 {
		return ErrInvalid(problems...)
	}
	return nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return oops.Wrapf(err, "version %q", v)
	}
	c, err := semver.NewConstraint(VersionConstraint)
	if err != nil {
		return oops.Wrapf(err, "constraint %q", VersionConstraint)
	}
	if !c.Check(version) {
		return oops.Errorf("version %s does not satisfy %s", v, VersionConstraint)
	}
	return nil
}

// Start returns the world time at which the scenario begins. An empty
// start_time means the scenario starts now.
func (s *Scenario) Start() (time.Time, error) {
	if s.StartTime == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.StartTime)
	if err != nil {
		return time.Time{}, oops.Wrapf(err, "parse %q", s.StartTime)
	}
	return t, nil
}

func (l LocationSpec) location() (*world.Location, error) {
	typ := l.Type
	if typ == "" {
		typ = world.LocationTypeGeneric
	}
	loc, err := world.NewLocation(l.Name, typ, l.Position, l.Notes...)
	if err != nil {
		return nil, err
	}
	if l.Radius > 0 {
		loc.Radius = l.Radius
	}
	loc.OwnerID = l.Owner
	return loc, loc.Validate()
}

func (a ActorSpec) emotion() world.EmotionalState {
	if a.Emotion == nil {
		return world.DefaultEmotion()
	}
	return world.EmotionalState{
		Primary:   a.Emotion.Primary,
		Intensity: a.Emotion.Intensity,
		MoodTags:  a.Emotion.MoodTags,
	}
}

// Registry builds a resource registry holding every declared location, with
// occupancy and owner presence derived from the actors' start positions.
func (s *Scenario) Registry(opts ...resource.Option) (*resource.Registry, error) {
	reg := resource.NewRegistry(opts...)
	for _, l := range s.Locations {
		loc, err := l.location()
		if err != nil {
			return nil, ErrInvalid(err.Error())
		}
		if err := reg.Register(loc); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Actors {
		reg.Relocate(a.ID, a.Position)
	}
	return reg, nil
}

// Actors builds the declared actors in file order.
func (s *Scenario) Actors() ([]*world.Actor, error) {
	out := make([]*world.Actor, 0, len(s.Actors))
	for _, spec := range s.Actors {
		a, err := world.NewActor(spec.ID, spec.Name, spec.Position)
		if err != nil {
			return nil, ErrInvalid(fmt.Sprintf("actor %q: %v", spec.ID, err))
		}
		if spec.DecisionDriven != nil {
			a.DecisionDriven = *spec.DecisionDriven
		}
		a.Emotion = spec.emotion().Normalized()
		out = append(out, a)
	}
	return out, nil
}
