// Package theme holds the design-token theming subsystem: named token sets
// loaded from YAML, with light/dark built in and user overrides persisted in
// prefs.
package theme

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"habitFlowClient/internal/prefs"
)

//go:embed themes/*.yaml
var themeFS embed.FS

const (
	VariantLight  = "light"
	VariantDark   = "dark"
	VariantSystem = "system"
)

// Theme is one complete token set. All fields are read-only after Load.
type Theme struct {
	Name       string     `yaml:"name"`
	Palette    Palette    `yaml:"palette"`
	Spacing    Spacing    `yaml:"spacing"`
	Typography Typography `yaml:"typography"`
	Radius     Radius     `yaml:"radius"`
}

type Palette struct {
	Background    string `yaml:"background"`
	Surface       string `yaml:"surface"`
	Primary       string `yaml:"primary"`
	Secondary     string `yaml:"secondary"`
	Accent        string `yaml:"accent"`
	Danger        string `yaml:"danger"`
	Success       string `yaml:"success"`
	TextPrimary   string `yaml:"text_primary"`
	TextSecondary string `yaml:"text_secondary"`
}

type Spacing struct {
	XS int `yaml:"xs"`
	SM int `yaml:"sm"`
	MD int `yaml:"md"`
	LG int `yaml:"lg"`
	XL int `yaml:"xl"`
}

type Typography struct {
	FontFamily  string `yaml:"font_family"`
	SizeCaption int    `yaml:"size_caption"`
	SizeBody    int    `yaml:"size_body"`
	SizeTitle   int    `yaml:"size_title"`
	SizeDisplay int    `yaml:"size_display"`
}

type Radius struct {
	Small  int `yaml:"small"`
	Medium int `yaml:"medium"`
	Large  int `yaml:"large"`
}

// Load reads the named built-in theme.
func Load(name string) (*Theme, error) {
	data, err := themeFS.ReadFile("themes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown theme %q: %w", name, err)
	}

	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	return &t, nil
}

// Manager resolves which theme is in effect and persists the user's choice.
type Manager struct {
	prefs *prefs.Store
}

func NewManager(p *prefs.Store) *Manager {
	return &Manager{prefs: p}
}

// Resolve picks the active theme: the persisted preference first, then the
// HABIT_THEME environment variable, then light. "system" resolves to light;
// the rendering layer substitutes the OS appearance when it knows better.
func (m *Manager) Resolve(ctx context.Context) (*Theme, error) {
	name := VariantSystem
	if m.prefs != nil {
		stored, err := m.prefs.Get(ctx, prefs.KeyTheme)
		switch {
		case err == nil:
			name = stored
		case !errors.Is(err, prefs.ErrNotFound):
			return nil, err
		}
	}
	if name == VariantSystem {
		if env := os.Getenv("HABIT_THEME"); env != "" {
			name = env
		}
	}
	if name == VariantSystem {
		name = VariantLight
	}
	return Load(name)
}

// SetVariant persists the user's theme choice.
func (m *Manager) SetVariant(ctx context.Context, name string) error {
	if name != VariantLight && name != VariantDark && name != VariantSystem {
		return fmt.Errorf("unknown theme variant %q", name)
	}
	return m.prefs.Set(ctx, prefs.KeyTheme, name)
}
