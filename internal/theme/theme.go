package theme

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/wmmenu/internal/menu"
)

// Geometry holds the menu metrics in character cells.
type Geometry struct {
	MinWidth           int `yaml:"min_width"`
	MaxWidth           int `yaml:"max_width"`
	PaddingX           int `yaml:"padding_x"`
	PaddingY           int `yaml:"padding_y"`
	SeparatorThickness int `yaml:"separator_thickness"`
	SeparatorPaddingW  int `yaml:"separator_padding_width"`
	SeparatorPaddingH  int `yaml:"separator_padding_height"`
	OverlapX           int `yaml:"overlap_x"`
	OverlapY           int `yaml:"overlap_y"`
}

// Colors are lipgloss colour strings (ANSI index or hex).
type Colors struct {
	Item           string `yaml:"item"`
	ItemBackground string `yaml:"item_background"`
	Selected       string `yaml:"selected"`
	SelectedBack   string `yaml:"selected_background"`
	Separator      string `yaml:"separator"`
	Title          string `yaml:"title"`
	Status         string `yaml:"status"`
	Error          string `yaml:"error"`
}

// Theme is the on-disk theme document.
type Theme struct {
	Geometry Geometry `yaml:"menu"`
	Colors   Colors   `yaml:"colors"`
}

// DefaultTheme returns the built-in terminal theme.
func DefaultTheme() Theme {
	return Theme{
		Geometry: Geometry{
			MinWidth:           12,
			MaxWidth:           40,
			PaddingX:           1,
			SeparatorThickness: 1,
			SeparatorPaddingW:  1,
		},
		Colors: Colors{
			Item:           "249",
			ItemBackground: "236",
			Selected:       "255",
			SelectedBack:   "33",
			Separator:      "240",
			Title:          "245",
			Status:         "245",
			Error:          "196",
		},
	}
}

// Load reads a YAML theme over the defaults. An empty path returns the
// defaults.
func Load(path string) (Theme, error) {
	t := DefaultTheme()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTheme(), fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Geometry.validate(); err != nil {
		return DefaultTheme(), fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

func (g Geometry) validate() error {
	switch {
	case g.MinWidth < 1:
		return fmt.Errorf("min_width must be >= 1 (got %d)", g.MinWidth)
	case g.MaxWidth < g.MinWidth:
		return fmt.Errorf("max_width %d is below min_width %d", g.MaxWidth, g.MinWidth)
	case g.PaddingX < 0 || g.PaddingY < 0 || g.SeparatorPaddingW < 0 || g.SeparatorPaddingH < 0:
		return fmt.Errorf("paddings must be >= 0")
	case g.SeparatorThickness < 1:
		return fmt.Errorf("separator_thickness must be >= 1")
	}
	return nil
}

// Metrics converts the geometry for the menu tree.
func (g Geometry) Metrics() menu.Metrics {
	return menu.Metrics{
		MinWidth:           g.MinWidth,
		MaxWidth:           g.MaxWidth,
		PaddingX:           g.PaddingX,
		PaddingY:           g.PaddingY,
		SeparatorThickness: g.SeparatorThickness,
		SeparatorPaddingW:  g.SeparatorPaddingW,
		SeparatorPaddingH:  g.SeparatorPaddingH,
		OverlapX:           g.OverlapX,
		OverlapY:           g.OverlapY,
	}
}

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style
	Separator    *lipgloss.Style
	Title        *lipgloss.Style
	Status       *lipgloss.Style
	Error        *lipgloss.Style
}

// Styles builds the renderer styles from the theme colours.
func (t Theme) Styles() *Styles {
	c := t.Colors
	return &Styles{
		Item: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Item)).Background(lipgloss.Color(c.ItemBackground)),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Selected)).Background(lipgloss.Color(c.SelectedBack)).Bold(true),
		),
		Separator: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Separator)).Background(lipgloss.Color(c.ItemBackground)),
		),
		Title: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Title)).Bold(true),
		),
		Status: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Status)).Italic(true),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Error)).Bold(true),
		),
	}
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return DefaultTheme().Styles()
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
