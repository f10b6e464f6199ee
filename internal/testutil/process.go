package testutil

import (
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/atomicstack/wmmenu/internal/pipemenu"
)

// RequireShell aborts the calling test when /bin/sh is not available.
func RequireShell(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("skipping: sh binary not available")
	}
	return path
}

// FakeProcess is a pipe menu command that never runs.
type FakeProcess struct {
	Pid        int
	Output     io.Reader
	Terminated int
	Closed     int
}

func (p *FakeProcess) PID() int { return p.Pid }

func (p *FakeProcess) Stdout() io.Reader {
	if p.Output == nil {
		return strings.NewReader("")
	}
	return p.Output
}

func (p *FakeProcess) Terminate() error {
	p.Terminated++
	return nil
}

func (p *FakeProcess) Close() error {
	p.Closed++
	return nil
}

// FakeSpawner hands out FakeProcesses and records every command.
type FakeSpawner struct {
	Err       error
	Commands  []string
	Processes []*FakeProcess
}

var _ pipemenu.Spawner = (*FakeSpawner)(nil)

func (s *FakeSpawner) Spawn(command string) (pipemenu.Process, error) {
	s.Commands = append(s.Commands, command)
	if s.Err != nil {
		return nil, s.Err
	}
	p := &FakeProcess{Pid: 1000 + len(s.Processes)}
	s.Processes = append(s.Processes, p)
	return p, nil
}

// Last returns the most recently spawned process.
func (s *FakeSpawner) Last() *FakeProcess {
	if len(s.Processes) == 0 {
		return nil
	}
	return s.Processes[len(s.Processes)-1]
}
