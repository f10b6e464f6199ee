package pipemenu

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// Process is a running pipe menu command.
type Process interface {
	PID() int
	Stdout() io.Reader
	// Terminate asks the process to exit.
	Terminate() error
	// Close releases the output pipe. It does not stop the process.
	Close() error
}

// Spawner launches pipe menu commands.
type Spawner interface {
	Spawn(command string) (Process, error)
}

// ExecSpawner runs commands through a shell.
type ExecSpawner struct {
	Shell string
	Env   []string
}

func (s ExecSpawner) Spawn(command string) (Process, error) {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdout = pw
	if s.Env != nil {
		cmd.Env = s.Env
	}
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}
	// The child holds its own copy of the write end.
	pw.Close()

	p := &execProcess{cmd: cmd, stdout: pr, done: make(chan struct{})}
	go p.wait()
	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout *os.File

	closeOnce sync.Once
	done      chan struct{}
}

// wait reaps the child so it never lingers as a zombie.
func (p *execProcess) wait() {
	_ = p.cmd.Wait()
	close(p.done)
}

func (p *execProcess) PID() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }

func (p *execProcess) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *execProcess) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.stdout.Close()
	})
	return err
}
