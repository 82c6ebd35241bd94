package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthoritativeSize(t *testing.T) {
	tests := []struct {
		name     string
		start    uint64
		end      uint64
		reported uint64
		want     uint64
	}{
		{
			name:     "span and reported agree",
			start:    512,
			end:      1024,
			reported: 512,
			want:     512,
		},
		{
			name:     "reported overstates by one byte",
			start:    512,
			end:      1024,
			reported: 513,
			want:     512,
		},
		{
			name:     "reported understates",
			start:    512,
			end:      1024,
			reported: 500,
			want:     500,
		},
		{
			name:     "end before start never goes negative",
			start:    1024,
			end:      512,
			reported: 512,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mbr := NewMBRPartition("/dev/sdb1", 1, "primary", "ext4", tt.start, tt.end, tt.reported)
			assert.Equal(t, tt.want, mbr.SizeBytes())

			guid := NewGUIDPartition("/dev/sdb1", 1, "data", "ext4", tt.start, tt.end, tt.reported)
			assert.Equal(t, tt.want, guid.SizeBytes())
		})
	}
}

func TestPartitionAccessors(t *testing.T) {
	mbr := NewMBRPartition("/dev/sdb3", 3, "logical", "", 100, 200, 100)
	assert.Equal(t, 3, mbr.Number())
	assert.Equal(t, "logical", mbr.Type())
	assert.Equal(t, "/dev/sdb3", mbr.DevicePath())
	assert.Empty(t, mbr.Filesystem())

	guid := NewGUIDPartition("/dev/sdb1", 1, "primary", "xfs", 17408, 1000000, 982592)
	assert.Equal(t, 1, guid.Number())
	assert.Equal(t, "primary", guid.Name())
	assert.Equal(t, "xfs", guid.Filesystem())
	assert.Equal(t, uint64(982592), guid.SizeBytes())
}
