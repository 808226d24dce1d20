// Package config resolves iccview's runtime settings.
// Precedence, highest first: process environment, a local .env file, then
// built-in defaults. CLI flags override all of these and are applied by the
// command layer after Load.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"iccview/internal/logger"
)

// Default values for every setting.
const (
	DefaultTheme      = "default"
	DefaultPlotWidth  = 64
	DefaultPlotHeight = 16
	DefaultLogLevel   = "warn"
)

// Settings holds the resolved runtime configuration.
type Settings struct {
	Theme      string
	PlotWidth  int
	PlotHeight int
	LogLevel   string
	LogFile    string
}

// Load resolves settings from the environment. A .env file in the working
// directory is loaded first (without overriding real environment variables),
// then ICCVIEW_* variables are read on top of the defaults.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	}

	v := viper.New()
	v.SetEnvPrefix("iccview")
	v.AutomaticEnv()

	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("plot_width", DefaultPlotWidth)
	v.SetDefault("plot_height", DefaultPlotHeight)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")

	s := &Settings{
		Theme:      v.GetString("theme"),
		PlotWidth:  v.GetInt("plot_width"),
		PlotHeight: v.GetInt("plot_height"),
		LogLevel:   v.GetString("log_level"),
		LogFile:    v.GetString("log_file"),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.PlotWidth <= 0 {
		return fmt.Errorf("config: plot width must be positive, got %d", s.PlotWidth)
	}
	if s.PlotHeight <= 0 {
		return fmt.Errorf("config: plot height must be positive, got %d", s.PlotHeight)
	}
	return nil
}
