package chart

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"iccview/internal/logger"
)

//go:embed themes/default.yaml
var defaultThemeData []byte

//go:embed themes/plain.yaml
var plainThemeData []byte

// Theme holds the lipgloss styles the terminal surface renders with.
type Theme struct {
	Name    string
	Title   lipgloss.Style
	Axis    lipgloss.Style
	Curve   lipgloss.Style
	Point   lipgloss.Style
	RefLine lipgloss.Style
	Label   lipgloss.Style
}

// themeFile is the on-disk shape of an embedded theme.
type themeFile struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
}

// LoadTheme returns the named embedded theme. Unknown names and parse
// failures fall back to the plain (unstyled) theme.
func LoadTheme(name string) Theme {
	var data []byte
	switch name {
	case "", "default":
		data = defaultThemeData
	case "plain":
		data = plainThemeData
	default:
		logger.Warn("Unknown chart theme, using plain", "theme", name)
		return plainTheme()
	}

	theme, err := parseTheme(data)
	if err != nil {
		logger.Error("Failed to parse chart theme", "theme", name, "error", err)
		return plainTheme()
	}
	return theme
}

func parseTheme(data []byte) (Theme, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Theme{}, fmt.Errorf("failed to parse theme file: %w", err)
	}

	style := func(key string) lipgloss.Style {
		color, ok := file.Colors[key]
		if !ok || color == "" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	return Theme{
		Name:    file.Name,
		Title:   style("title"),
		Axis:    style("axis"),
		Curve:   style("curve"),
		Point:   style("point"),
		RefLine: style("refline"),
		Label:   style("label"),
	}, nil
}

func plainTheme() Theme {
	return Theme{Name: "plain"}
}
