package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/wmmenu/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envMenu          = "WMMENU_MENU"
	envMerge         = "WMMENU_MERGE"
	envTheme         = "WMMENU_THEME"
	envOpen          = "WMMENU_OPEN"
	envWorkspaces    = "WMMENU_WORKSPACES"
	envWidth         = "WMMENU_WIDTH"
	envHeight        = "WMMENU_HEIGHT"
	envWatch         = "WMMENU_WATCH"
	envMetricsListen = "WMMENU_METRICS_LISTEN"
	envTrace         = "WMMENU_TRACE"
	envLogFile       = "WMMENU_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("wmmenu", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	menuPath := fs.String("menu", envOrDefault(env, envMenu, ""), "explicit menu file (skips XDG lookup)")
	merge := fs.Bool("merge", envOrBool(env, envMerge, false), "merge every menu file found instead of using the first")
	themePath := fs.String("theme", envOrDefault(env, envTheme, ""), "YAML theme file")
	open := fs.String("open", envOrDefault(env, envOpen, "root-menu"), "id of the menu to open")
	workspaces := fs.Int("workspaces", envOrInt(env, envWorkspaces, 4), "number of workspaces offered by the window menu")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	x := fs.Int("x", 0, "column where the menu opens")
	y := fs.Int("y", 0, "row where the menu opens")
	watch := fs.Bool("watch", envOrBool(env, envWatch, false), "rebuild the menu when its files change")
	metricsListen := fs.String("metrics-listen", envOrDefault(env, envMetricsListen, ""), "serve prometheus metrics on this address")
	dump := fs.Bool("dump", false, "print the menu tree and exit")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			MenuPath:      *menuPath,
			Merge:         *merge,
			ThemePath:     *themePath,
			OpenMenu:      *open,
			Workspaces:    *workspaces,
			Width:         *width,
			Height:        *height,
			X:             *x,
			Y:             *y,
			Watch:         *watch,
			MetricsListen: *metricsListen,
			Dump:          *dump,
			Environ:       env,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"menu":          *menuPath,
			"merge":         strconv.FormatBool(*merge),
			"theme":         *themePath,
			"open":          *open,
			"workspaces":    strconv.Itoa(*workspaces),
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"x":             strconv.Itoa(*x),
			"y":             strconv.Itoa(*y),
			"watch":         strconv.FormatBool(*watch),
			"metricsListen": *metricsListen,
			"dump":          strconv.FormatBool(*dump),
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the menu cannot work with.
func Validate(cfg Config) error {
	a := cfg.App
	if strings.TrimSpace(a.OpenMenu) == "" {
		return fmt.Errorf("open menu id must not be empty")
	}
	if a.Workspaces < 1 {
		return fmt.Errorf("workspaces must be >= 1 (got %d)", a.Workspaces)
	}
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.X < 0 || a.Y < 0 {
		return fmt.Errorf("menu position must not be negative (got %d,%d)", a.X, a.Y)
	}
	return nil
}
