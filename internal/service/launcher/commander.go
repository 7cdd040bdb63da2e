package launcher

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Commander runs runtime subcommands.
type Commander interface {
	// Output runs the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Run runs the command with stdout and stderr sent to w.
	Run(ctx context.Context, w io.Writer, name string, args ...string) error
	// Start spawns a background process that outlives the caller's context.
	Start(name string, args ...string) error
}

// ExecCommander runs commands with os/exec.
type ExecCommander struct{}

func (ExecCommander) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (ExecCommander) Run(ctx context.Context, w io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

func (ExecCommander) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	// reap the child if it exits before we do
	go func() { _ = cmd.Wait() }()
	return nil
}
