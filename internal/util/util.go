// Package util provides the process-execution adapter shared by every component
// that shells out to an external tool.
package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandOutput wraps the output from an exec command as strings. ExitCode is
// only meaningful when the command ran to completion; commands that could not
// be started (e.g. binary not found) never produce one.
type CommandOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecuteCommand executes the command described by argv and returns its captured
// output. A nonzero exit is reported both through the returned error and through
// CommandOutput.ExitCode so callers can classify the failure from the captured
// stdout/stderr text.
func ExecuteCommand(ctx context.Context, argv []string) (output CommandOutput, err error) {
	// Check the empty struct case ([]string{}) for the command
	if len(argv) == 0 {
		return CommandOutput{}, fmt.Errorf("must provide a command")
	}

	// Set the name of the command and check if args are also provided
	name := argv[0]
	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}

	// Set command and create output buffers
	cmd := exec.CommandContext(ctx, name, args...)
	var stdoutb, stderrb bytes.Buffer
	cmd.Stdout = &stdoutb
	cmd.Stderr = &stderrb

	// Start the command's execution
	if err = cmd.Start(); err != nil {
		return CommandOutput{}, fmt.Errorf("error starting specified command: %w", err)
	}

	// Wait for the command to exit
	if err = cmd.Wait(); err != nil {
		output = CommandOutput{Stdout: stdoutb.String(), Stderr: stderrb.String()}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
		}
		return output, fmt.Errorf("error waiting for specified command to exit: %w", err)
	}

	return CommandOutput{Stdout: stdoutb.String(), Stderr: stderrb.String()}, nil
}

// IsNotFound reports whether err indicates that the command's binary is not
// installed on the host, as opposed to the command running and failing.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
