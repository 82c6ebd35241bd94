package parted

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Infinidat/infi.parted/internal/util"
)

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name string
		out  util.CommandOutput
		want verdict
	}{
		{
			name: "unrecognised disk label is a missing table",
			out:  util.CommandOutput{Stderr: "Error: /dev/sdb: unrecognised disk label", ExitCode: 1},
			want: verdictNoTable,
		},
		{
			name: "loop partition table size limit is a missing table",
			out:  util.CommandOutput{Stderr: "Error: partition length of 123 sectors exceeds the loop-partition-table-imposed maximum", ExitCode: 1},
			want: verdictNoTable,
		},
		{
			name: "device-mapper create ioctl failure is benign",
			out:  util.CommandOutput{Stderr: "device-mapper: create ioctl failed: Device or resource busy", ExitCode: 1},
			want: verdictBenign,
		},
		{
			name: "warning on stdout is benign",
			out:  util.CommandOutput{Stdout: "WARNING: the kernel failed to re-read the partition table", ExitCode: 1},
			want: verdictBenign,
		},
		{
			name: "alignment advisory is benign",
			out:  util.CommandOutput{Stdout: "The resulting partition is not properly aligned for best performance.", ExitCode: 1},
			want: verdictBenign,
		},
		{
			name: "mkfs not implemented is benign",
			out:  util.CommandOutput{Stderr: "Error: Support for creating this file system is not implemented yet.", ExitCode: 1},
			want: verdictBenign,
		},
		{
			name: "rejected filesystem hint requests a retry without it",
			out:  util.CommandOutput{Stderr: "parted: invalid token: ext4", ExitCode: 1},
			want: verdictRetryWithoutToken,
		},
		{
			name: "anything else is fatal",
			out:  util.CommandOutput{Stderr: "Error: /dev/sdb: Input/output error", ExitCode: 1},
			want: verdictFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyOutput(tt.out))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "text after the first colon",
			stderr: "Error: /dev/sdb: unrecognised disk label\n",
			want:   "/dev/sdb: unrecognised disk label",
		},
		{
			name:   "no colon keeps the whole line",
			stderr: "something broke",
			want:   "something broke",
		},
		{
			name:   "empty stderr",
			stderr: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.stderr))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	err := &ExitError{Code: 1, Message: "unrecognised disk label"}
	assert.Equal(t, "parted: exit status 1: unrecognised disk label", err.Error())
}
