// Package config loads the frame controller configuration.
//
// Values are layered: a JSON or YAML file, then FRAMECTL_* environment
// variables, then command-line flags applied by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"github.com/gwillem/framecontroller/pkg/joypad"
	"github.com/gwillem/framecontroller/pkg/teleop"
	"github.com/gwillem/framecontroller/pkg/transform"
)

const DefaultConfigFile = "framecontroller.json"

// DefaultTransforms is the transform server endpoint used when none is set.
const DefaultTransforms = "ws://localhost:7400/ws"

// ErrMissing is returned by Validate when a required parameter is absent.
var ErrMissing = errors.New("missing required parameter")

// Config holds the frame controller configuration.
type Config struct {
	Velocity          *float64 `json:"velocity,omitempty" yaml:"velocity,omitempty" env:"FRAMECTL_VELOCITY"`
	RootFrame         string   `json:"rootFrame" yaml:"rootFrame" env:"FRAMECTL_ROOT_FRAME"`
	LeftFrameInitial  string   `json:"leftFrameInitial" yaml:"leftFrameInitial" env:"FRAMECTL_LEFT_FRAME_INITIAL"`
	RightFrameInitial string   `json:"rightFrameInitial" yaml:"rightFrameInitial" env:"FRAMECTL_RIGHT_FRAME_INITIAL"`
	LeftFrame         string   `json:"leftFrame" yaml:"leftFrame" env:"FRAMECTL_LEFT_FRAME"`
	RightFrame        string   `json:"rightFrame" yaml:"rightFrame" env:"FRAMECTL_RIGHT_FRAME"`
	Remote            string   `json:"remote" yaml:"remote" env:"FRAMECTL_REMOTE"`
	InvertPOV         *bool    `json:"invertPOV,omitempty" yaml:"invertPOV,omitempty" env:"FRAMECTL_INVERT_POV"`
	Limit             *float64 `json:"limit,omitempty" yaml:"limit,omitempty" env:"FRAMECTL_LIMIT"`

	// Transforms is the websocket endpoint of the transform server.
	Transforms string `json:"transforms,omitempty" yaml:"transforms,omitempty" env:"FRAMECTL_TRANSFORMS"`

	Layout *joypad.Layout `json:"layout,omitempty" yaml:"layout,omitempty"`

	// Static transforms seeded by the serve command.
	Static []StaticTransform `json:"static,omitempty" yaml:"static,omitempty"`
}

// StaticTransform is a fixed transform, translation in meters and roll, pitch,
// yaw in degrees.
type StaticTransform struct {
	Parent      string     `json:"parent" yaml:"parent"`
	Child       string     `json:"child" yaml:"child"`
	Translation [3]float64 `json:"translation" yaml:"translation"`
	RPY         [3]float64 `json:"rpy,omitempty" yaml:"rpy,omitempty"`
}

// Load reads the default config file if it exists and applies environment
// overrides.
func Load() (*Config, error) {
	if !Exists() {
		cfg := &Config{}
		return cfg, cfg.ApplyEnv()
	}
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom reads a config file, choosing YAML for .yaml and .yml extensions
// and JSON otherwise, then applies environment overrides.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from FRAMECTL_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Exists returns true if the default config file exists
func Exists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

// Validate checks that every required parameter is present.
func (c *Config) Validate() error {
	var missing []string
	if c.Velocity == nil {
		missing = append(missing, "velocity")
	}
	required := []struct {
		name  string
		value string
	}{
		{"rootFrame", c.RootFrame},
		{"leftFrameInitial", c.LeftFrameInitial},
		{"rightFrameInitial", c.RightFrameInitial},
		{"leftFrame", c.LeftFrame},
		{"rightFrame", c.RightFrame},
		{"remote", c.Remote},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if c.InvertPOV == nil {
		missing = append(missing, "invertPOV")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if *c.Velocity < 0 {
		return fmt.Errorf("velocity must not be negative, got %g", *c.Velocity)
	}
	if c.Limit != nil && *c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %g", *c.Limit)
	}
	if c.Layout != nil {
		if err := c.Layout.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TransformsEndpoint returns the configured transform server or the default.
func (c *Config) TransformsEndpoint() string {
	if c.Transforms == "" {
		return DefaultTransforms
	}
	return c.Transforms
}

// Control resolves the controller configuration. Call Validate first.
func (c *Config) Control() teleop.Config {
	limit := teleop.UnboundedLimit()
	if c.Limit != nil {
		limit = teleop.UniformLimit(*c.Limit)
	}
	layout := joypad.DefaultLayout()
	if c.Layout != nil {
		layout = *c.Layout
	}
	return teleop.Config{
		MaxVelocity:   deref(c.Velocity),
		Period:        teleop.DefaultPeriod,
		InvertPOV:     c.InvertPOV != nil && *c.InvertPOV,
		Limit:         limit,
		RootFrame:     c.RootFrame,
		InitialFrames: [2]string{teleop.Left: c.LeftFrameInitial, teleop.Right: c.RightFrameInitial},
		TargetFrames:  [2]string{teleop.Left: c.LeftFrame, teleop.Right: c.RightFrame},
		Layout:        layout,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Pose converts the static transform into a pose.
func (s StaticTransform) Pose() transform.Pose {
	t := s.Translation
	return transform.FromRPY(s.RPY[0], s.RPY[1], s.RPY[2]).
		WithTranslation(r3.Vector{X: t[0], Y: t[1], Z: t[2]})
}
