// Package parted wraps the GNU parted CLI: it detects the installed tool
// version once, selects the matching output decoder, and drives partition-table
// reads and mutations through a single Runner seam.
package parted

//go:generate mockgen -destination mocks/mock_runner.go github.com/Infinidat/infi.parted/internal/parted Runner

import (
	"context"
	"fmt"
	"regexp"
	"runtime"

	"github.com/Masterminds/semver"

	"github.com/Infinidat/infi.parted/internal/util"
)

// Runner is the process-executor seam consumed by every parted invocation.
type Runner interface {
	// Run executes argv and returns the captured output. A nonzero exit is
	// reported through the error; the output is still populated so callers can
	// classify the failure from the captured text.
	Run(ctx context.Context, argv []string) (util.CommandOutput, error)
}

// ExecRunner is the Runner implementation backed by the host's process executor.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string) (util.CommandOutput, error) {
	return util.ExecuteCommand(ctx, argv)
}

// machineOutputConstraints identifies parted releases that support the
// --machine flag for machine-parsable output (introduced in 1.8.7). The flag is
// Linux-specific, so non-Linux hosts fall back to the legacy text decoder
// regardless of version.
var machineOutputConstraints = mustInitConstraint(semver.NewConstraint(">= 1.8.7"))

// mustInitConstraint ensures that a semver.Constraints can be initialized and used.
func mustInitConstraint(c *semver.Constraints, err error) *semver.Constraints {
	if err != nil {
		panic(fmt.Errorf("must initialize semver constraint: %w", err))
	}
	return c
}

// Config is the immutable per-process parted configuration produced by Detect.
// All invocations derive their argument list from it; nothing consults global
// state per call.
type Config struct {
	// Version is the detected parted release.
	Version semver.Version
	// MachineReadable selects the --machine output mode and the matching decoder.
	MachineReadable bool
}

// Detect probes the installed parted binary once and returns the Config used
// for all subsequent invocations.
func Detect(ctx context.Context, runner Runner) (Config, error) {
	return detect(ctx, runner, runtime.GOOS)
}

// detect is the GOOS-parameterized implementation of Detect.
func detect(ctx context.Context, runner Runner, goos string) (Config, error) {
	out, err := runner.Run(ctx, []string{"parted", "--version"})
	if err != nil {
		if util.IsNotFound(err) {
			return Config{}, ErrNotInstalled
		}
		return Config{}, fmt.Errorf("probe parted version: %w", err)
	}

	version, err := parseToolVersion(out.Stdout)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Version:         *version,
		MachineReadable: goos == "linux" && machineOutputConstraints.Check(version),
	}

	return cfg, nil
}

// toolVersionExp matches the release number in parted's --version banner,
// e.g. "parted (GNU parted) 3.4".
var toolVersionExp = regexp.MustCompile(`parted \(GNU parted\) ([0-9][0-9.]*)`)

// parseToolVersion extracts the semver release from the --version banner.
func parseToolVersion(banner string) (*semver.Version, error) {
	match := toolVersionExp.FindStringSubmatch(banner)
	if match == nil {
		return nil, fmt.Errorf("parted: unrecognized version banner %q", banner)
	}

	version, err := semver.NewVersion(match[1])
	if err != nil {
		return nil, fmt.Errorf("parted: version %q: %w", match[1], err)
	}

	return version, nil
}

// commandArgs builds the argv for a parted verb against a device:
// [--script, [--machine], <device>, <verb...>].
func (c Config) commandArgs(device string, verb ...string) []string {
	argv := []string{"parted", "--script"}
	if c.MachineReadable {
		argv = append(argv, "--machine")
	}
	argv = append(argv, device)
	argv = append(argv, verb...)

	return argv
}

// decoder returns the output decoder matching the configured output mode.
func (c Config) decoder() Decoder {
	if c.MachineReadable {
		return &MachineDecoder{}
	}
	return &TextDecoder{}
}
