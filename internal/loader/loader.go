// Package loader resolves the candidate menu files and feeds them to the
// tree builder.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/logging/events"
)

// DefaultName is the logical name of the menu document.
const DefaultName = "menu.xml"

const appDir = "wmmenu"

// ErrNoSource is returned when no candidate could be read.
var ErrNoSource = errors.New("no menu source")

// Paths returns the candidate files for name, most important first: the
// user override under XDG_CONFIG_HOME, then each XDG_CONFIG_DIRS entry.
func Paths(name string, env map[string]string) []string {
	home := env["XDG_CONFIG_HOME"]
	if home == "" && env["HOME"] != "" {
		home = filepath.Join(env["HOME"], ".config")
	}
	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, appDir, name))
	}
	dirs := env["XDG_CONFIG_DIRS"]
	if dirs == "" {
		dirs = "/etc/xdg"
	}
	for _, dir := range strings.Split(dirs, ":") {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, appDir, name))
	}
	return paths
}

// Source reads a list of candidate files. It implements menu.Source.
type Source struct {
	Paths []string
	// Merge parses every existing candidate, least important first.
	// Otherwise only the first candidate is used.
	Merge bool
	// Open defaults to os.Open.
	Open func(path string) (io.ReadCloser, error)
}

// Explicit returns a source that reads only path.
func Explicit(path string) Source {
	return Source{Paths: []string{path}}
}

// Each calls fn with the content of every source read, in parse order. It
// returns how many sources were read. Errors from fn stop the iteration.
func (s Source) Each(fn func(name string, data []byte) error) (int, error) {
	order := s.Paths
	if s.Merge {
		order = make([]string, 0, len(s.Paths))
		for i := len(s.Paths) - 1; i >= 0; i-- {
			order = append(order, s.Paths[i])
		}
	}

	read := 0
	for _, path := range order {
		data, err := s.read(path)
		if err != nil {
			events.Loader.Skip(path, err.Error())
			if !s.Merge {
				// A missing user override stops loading; callers fall
				// back to the built-in menus.
				return read, fmt.Errorf("read %s: %w", path, errors.Join(ErrNoSource, err))
			}
			continue
		}
		logging.Info("read menu file %s", path)
		events.Loader.Read(path)
		read++
		if err := fn(path, data); err != nil {
			return read, err
		}
		if !s.Merge {
			break
		}
	}
	if read == 0 {
		return 0, ErrNoSource
	}
	return read, nil
}

func (s Source) read(path string) ([]byte, error) {
	open := s.Open
	if open == nil {
		open = func(p string) (io.ReadCloser, error) { return os.Open(p) }
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines reads r line by line with line terminators stripped, joining
// the lines with a single newline.
func ReadLines(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var b strings.Builder
	first := true
	for scanner.Scan() {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
