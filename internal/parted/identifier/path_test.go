package identifier

import (
	"testing"

	"github.com/Masterminds/semver"
	"github.com/stretchr/testify/assert"

	"github.com/Infinidat/infi.parted/internal/system"
)

func product(release system.Release, version string) *system.Product {
	return &system.Product{
		Release: release,
		Version: *semver.MustParse(version),
	}
}

func TestMultipathPartitionPrefix(t *testing.T) {
	tests := []struct {
		name    string
		product *system.Product
		path    string
		want    string
	}{
		{
			name:    "redhat 7 with digit-terminated path",
			product: product(system.RedHat, "7.9"),
			path:    "/dev/mapper/mpath2",
			want:    "",
		},
		{
			name:    "redhat 7 with letter-terminated path",
			product: product(system.RedHat, "7.9"),
			path:    "/dev/mapper/mpatha",
			want:    "p",
		},
		{
			name:    "redhat non-7 with path ending in f",
			product: product(system.RedHat, "6.5"),
			path:    "/dev/mapper/mpathf",
			want:    "p",
		},
		{
			name:    "centos follows the redhat family rules",
			product: product(system.CentOS, "7.4"),
			path:    "/dev/mapper/mpath12",
			want:    "",
		},
		{
			name:    "ubuntu is unconditional",
			product: product(system.Ubuntu, "20.04"),
			path:    "/dev/mapper/mpatha",
			want:    "-part",
		},
		{
			name:    "legacy suse uses the underscore separator",
			product: product(system.SUSE, "10.4"),
			path:    "/dev/mapper/mpatha",
			want:    "_part",
		},
		{
			name:    "modern suse uses the dash separator",
			product: product(system.SUSE, "12.1"),
			path:    "/dev/mapper/mpatha",
			want:    "-part",
		},
		{
			name:    "unknown release falls through to the alias pattern",
			product: product(system.Unknown, "1.0"),
			path:    "/dev/mapper/mpathab",
			want:    "p",
		},
		{
			name:    "unknown release with wwid-like path ending in a-f",
			product: product(system.Unknown, "1.0"),
			path:    "/dev/mapper/360002ac000000000000000000001234f",
			want:    "",
		},
		{
			name:    "unknown release with wwid-like path ending past f",
			product: product(system.Unknown, "1.0"),
			path:    "/dev/mapper/volume_x",
			want:    "p",
		},
		{
			name: "nil product uses the lexical rules only",
			path: "/dev/mapper/mpathc",
			want: "p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MultipathPartitionPrefix(tt.product, tt.path))
		})
	}
}

func TestPartitionDevicePath(t *testing.T) {
	t.Run("plain block device concatenates directly", func(t *testing.T) {
		got := PartitionDevicePath(product(system.Ubuntu, "20.04"), "/dev/sdb", 1)
		assert.Equal(t, "/dev/sdb1", got)
	})

	t.Run("device-mapper path consults the multipath prefix", func(t *testing.T) {
		got := PartitionDevicePath(product(system.Ubuntu, "20.04"), "/dev/mapper/mpatha", 1)
		assert.Equal(t, "/dev/mapper/mpatha-part1", got)
	})

	t.Run("redhat 7 digit-terminated mapper path has no separator", func(t *testing.T) {
		got := PartitionDevicePath(product(system.RedHat, "7.9"), "/dev/mapper/mpath2", 1)
		assert.Equal(t, "/dev/mapper/mpath21", got)
	})
}
