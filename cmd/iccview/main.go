// Package main provides the iccview CLI application entry point.
// iccview is an interactive explorer for item characteristic curves under
// the 1PL, 2PL, 3PL and 4PL logistic IRT models.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"iccview/internal/config"
	"iccview/internal/logger"
	"iccview/internal/shell"
	"iccview/internal/version"
)

var (
	logLevel   string
	logFile    string
	themeName  string
	plotWidth  int
	plotHeight int
)

// rootCmd represents the base command; without subcommands it starts the
// interactive shell.
var rootCmd = &cobra.Command{
	Use:   "iccview",
	Short: "iccview - interactive item characteristic curve explorer",
	Long: `iccview renders item characteristic curves for the 1PL, 2PL, 3PL and 4PL
logistic IRT models and lets you adjust ability and item parameters while
the curve and the highlighted point update live.`,
	Run: runShell,
}

// shellCmd is the explicit version of the default behavior.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive explorer",
	Run:   runShell,
}

// plotCmd renders one family once, without entering the shell.
var plotCmd = &cobra.Command{
	Use:   "plot <1pl|2pl|3pl|4pl>",
	Short: "Render a single model's curve non-interactively",
	Long: `Render one model family's curve once. Parameters are set with repeated
--param flags (e.g. --param a=2 --param b=0.5); the chart goes to stdout or,
with --out, to a PNG file.`,
	Args: cobra.ExactArgs(1),
	Run:  runPlot,
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		if !version.IsValid(info.Version) {
			logger.Warn("Build version is not valid semver", "version", info.Version)
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
	},
}

var (
	plotParams []string
	plotOut    string
	plotLock   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Chart theme (default|plain)")
	rootCmd.PersistentFlags().IntVar(&plotWidth, "width", 0, "Chart width in cells")
	rootCmd.PersistentFlags().IntVar(&plotHeight, "height", 0, "Chart height in cells")

	for _, flag := range []string{"log-level", "log-file", "theme", "width", "height"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	plotCmd.Flags().StringArrayVar(&plotParams, "param", nil, "Parameter assignment, repeatable: --param a=2")
	plotCmd.Flags().StringVar(&plotOut, "out", "", "Write a PNG snapshot instead of printing the chart")
	plotCmd.Flags().BoolVar(&plotLock, "lock", false, "Enable the ability/difficulty lock")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initLogging)
}

func initLogging() {
	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings resolves configuration and applies flag overrides on top.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if theme := viper.GetString("theme"); theme != "" {
		settings.Theme = theme
	}
	if width := viper.GetInt("width"); width > 0 {
		settings.PlotWidth = width
	}
	if height := viper.GetInt("height"); height > 0 {
		settings.PlotHeight = height
	}
	return settings, nil
}

func runShell(_ *cobra.Command, _ []string) {
	settings, err := loadSettings()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Info("Starting iccview", "version", version.Version)
	if err := shell.Run(settings, version.Get().String()); err != nil {
		logger.Fatal("Shell failed", "error", err)
	}
}

func runPlot(_ *cobra.Command, args []string) {
	settings, err := loadSettings()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	ws, err := shell.NewWorkspace(settings)
	if err != nil {
		logger.Fatal("Failed to build workspace", "error", err)
	}
	if err := ws.Activate(args[0]); err != nil {
		logger.Fatal("Unknown model", "error", err)
	}

	for _, assignment := range plotParams {
		param, value, err := parseParam(assignment)
		if err != nil {
			logger.Fatal("Bad --param flag", "error", err)
		}
		if err := ws.Set(param, value); err != nil {
			logger.Fatal("Failed to set parameter", "error", err)
		}
	}
	if plotLock {
		if err := ws.Lock(true); err != nil {
			logger.Fatal("Failed to enable lock", "error", err)
		}
	}

	if plotOut != "" {
		written, err := ws.Export(plotOut)
		if err != nil {
			logger.Fatal("Export failed", "error", err)
		}
		fmt.Printf("Saved %s\n", written)
		return
	}
	fmt.Print(ws.Render())
}

// parseParam splits a --param assignment of the form "name=value".
func parseParam(assignment string) (string, float64, error) {
	name, raw, ok := strings.Cut(assignment, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("expected name=value, got %q", assignment)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parameter %s: %q is not a number", name, raw)
	}
	return strings.ToLower(name), value, nil
}
