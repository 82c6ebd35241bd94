// Package identifier derives device-node paths for partitions, including the
// distribution-specific naming of partitions on device-mapper (multipath)
// backed disks.
package identifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/Infinidat/infi.parted/internal/system"
)

// mapperPathFragment marks disk paths backed by device-mapper.
const mapperPathFragment = "/dev/mapper"

var (
	// multipathAliasExp matches generic multipath aliases that end in letters
	// (e.g. "mpatha", "mpathab").
	multipathAliasExp = regexp.MustCompile(`mpath[a-z]+$`)

	// redhat7Constraints identifies the Red Hat family major release on which
	// partitions of digit-terminated multipath devices carry no separator.
	redhat7Constraints = mustInitConstraint(semver.NewConstraint("~7"))

	// suseLegacyConstraints identifies SUSE releases that still name multipath
	// partitions with an underscore separator.
	suseLegacyConstraints = mustInitConstraint(semver.NewConstraint("< 11"))
)

// mustInitConstraint ensures that a semver.Constraints can be initialized and used.
func mustInitConstraint(c *semver.Constraints, err error) *semver.Constraints {
	if err != nil {
		panic(fmt.Errorf("must initialize semver constraint: %w", err))
	}
	return c
}

// MultipathPartitionPrefix computes the string inserted between a device-mapper
// disk path and a partition number to form the partition's device-node path.
// The rules depend on the host product and on lexical properties of the path.
func MultipathPartitionPrefix(product *system.Product, path string) string {
	if product != nil {
		switch product.Release {
		case system.RedHat, system.CentOS:
			if redhat7Constraints.Check(&product.Version) && endsInDigit(path) {
				return ""
			}
			return "p"
		case system.Ubuntu:
			return "-part"
		case system.SUSE:
			if suseLegacyConstraints.Check(&product.Version) {
				return "_part"
			}
			return "-part"
		}
	}

	if multipathAliasExp.MatchString(path) {
		return "p"
	}

	if last := lastByte(path); last >= 'a' && last <= 'f' {
		return ""
	}
	return "p"
}

// PartitionDevicePath derives the device-node path for the numbered partition of
// the given disk. The multipath prefix is consulted only for device-mapper paths;
// plain block devices concatenate path and number directly.
func PartitionDevicePath(product *system.Product, diskPath string, number int) string {
	if strings.Contains(diskPath, mapperPathFragment) {
		return fmt.Sprintf("%s%s%d", diskPath, MultipathPartitionPrefix(product, diskPath), number)
	}
	return fmt.Sprintf("%s%d", diskPath, number)
}

func endsInDigit(s string) bool {
	last := lastByte(s)
	return last >= '0' && last <= '9'
}

func lastByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}
