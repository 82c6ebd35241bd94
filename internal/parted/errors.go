package parted

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Infinidat/infi.parted/internal/util"
)

var (
	// ErrNoPartitionTable reports that the disk carries no recognizable
	// partition table. It is a read result, not a tool failure.
	ErrNoPartitionTable = errors.New("no partition table")

	// ErrNotInstalled reports that the parted binary is not present on the host.
	ErrNotInstalled = errors.New("parted is not installed")

	// ErrNotImplemented marks operations the underlying tool offers no support for.
	ErrNotImplemented = errors.New("not implemented")

	// errInvalidToken reports that the tool rejected a filesystem-type hint
	// token on a mkpart call; the operation should be retried without it.
	errInvalidToken = errors.New("invalid token")
)

// ExitError carries the return code and a best-effort single-line message of a
// tool invocation that failed for an unrecognized reason.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("parted: exit status %d: %s", e.Code, e.Message)
}

// InvalidTableError reports a nonzero exit while reading a partition table that
// did not match any known "no table" pattern.
type InvalidTableError struct {
	Device string
	Err    error
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid partition table on %s: %v", e.Device, e.Err)
}

func (e *InvalidTableError) Unwrap() error { return e.Err }

// DeviceNotReadyError reports that a partition's device node did not become
// usable within the retry budget.
type DeviceNotReadyError struct {
	Device string
	Err    error
}

func (e *DeviceNotReadyError) Error() string {
	return fmt.Sprintf("device %s not ready: %v", e.Device, e.Err)
}

func (e *DeviceNotReadyError) Unwrap() error { return e.Err }

// verdict is the classification of a failed tool invocation.
type verdict uint8

const (
	// verdictFatal escalates the failure to the caller.
	verdictFatal verdict = iota
	// verdictNoTable means the disk has no partition table; not an error.
	verdictNoTable
	// verdictBenign means the tool reported a failure known to be harmless;
	// the operation is treated as a success.
	verdictBenign
	// verdictRetryWithoutToken means the tool rejected the filesystem-type
	// hint token and the call should be reissued without it.
	verdictRetryWithoutToken
)

// classifierRule maps a tool output substring to a verdict. Matching is on
// captured stdout/stderr text, never on exit codes: parted has no structured
// error channel.
type classifierRule struct {
	substring string
	verdict   verdict
}

// outputRules is the single table of all known output patterns. First match wins.
var outputRules = []classifierRule{
	{"unrecognised disk label", verdictNoTable},
	{"exceeds the loop-partition-table", verdictNoTable},
	// device-mapper reports a create ioctl failure on some Red Hat releases
	// even though the underlying operation succeeded.
	{"device-mapper: create ioctl", verdictBenign},
	{"WARNING", verdictBenign},
	{"not properly aligned for best performance", verdictBenign},
	// older parted routes formatting through the OS mkfs tool instead.
	{"not implemented yet", verdictBenign},
	{"invalid token", verdictRetryWithoutToken},
}

// classifyOutput scans the captured output of a failed invocation against
// outputRules and returns the matching verdict, or verdictFatal when nothing
// matches.
func classifyOutput(out util.CommandOutput) verdict {
	for _, rule := range outputRules {
		if strings.Contains(out.Stdout, rule.substring) || strings.Contains(out.Stderr, rule.substring) {
			return rule.verdict
		}
	}
	return verdictFatal
}

// errorMessage extracts parted's single-line error message from its stderr: the
// text after the first colon, or the whole line when no colon is present.
func errorMessage(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if _, message, found := strings.Cut(stderr, ":"); found {
		return strings.TrimSpace(message)
	}
	return stderr
}
