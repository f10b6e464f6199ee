package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/wmmenu/internal/app"
	"github.com/atomicstack/wmmenu/internal/config"
	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(cfg, os.Stdout, os.Stdin))
	}

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload records how the menu was resolved for this run: the
// flags, the menu files in load order and, for interactive runs, the
// terminal the menu renders into.
func startupTracePayload(cfg config.Config, terminals ...*os.File) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	src := app.Sources(cfg.App)
	payload := map[string]interface{}{
		"argv":        cfg.Args,
		"flags":       flags,
		"config":      cfg,
		"menuSources": src.Paths,
		"merge":       src.Merge,
		"openMenu":    cfg.App.OpenMenu,
	}
	if cfg.App.Dump {
		payload["mode"] = "dump"
		return payload
	}
	payload["mode"] = "interactive"
	payload["terminal"] = detectTerminal(terminals...)
	return payload
}

type terminalInfo struct {
	Source string `json:"source,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Error  string `json:"error,omitempty"`
}

// detectTerminal reports the size of the first file that is a terminal.
func detectTerminal(files ...*os.File) terminalInfo {
	for _, f := range files {
		if f == nil {
			continue
		}
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		width, height, err := term.GetSize(fd)
		if err != nil {
			return terminalInfo{Source: f.Name(), Error: err.Error()}
		}
		return terminalInfo{Source: f.Name(), Width: width, Height: height}
	}
	return terminalInfo{Error: "no terminal attached"}
}
