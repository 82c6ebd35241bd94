package system

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
)

// Release is used to define Linux distribution families in an enumerated constant
// (e.g. RedHat, Ubuntu, SUSE).
type Release uint8

const (
	Unknown Release = iota
	RedHat
	CentOS
	Ubuntu
	SUSE
)

func (r Release) String() string {
	switch r {
	case RedHat:
		return "Red Hat"
	case CentOS:
		return "CentOS"
	case Ubuntu:
		return "Ubuntu"
	case SUSE:
		return "SUSE"
	default:
		return "unknown"
	}
}

// releaseIDs maps os-release ID (and ID_LIKE) tokens to the Release they belong to.
var releaseIDs = map[string]Release{
	"rhel":          RedHat,
	"redhat":        RedHat,
	"fedora":        RedHat,
	"centos":        CentOS,
	"ubuntu":        Ubuntu,
	"debian":        Ubuntu,
	"sles":          SUSE,
	"sled":          SUSE,
	"suse":          SUSE,
	"opensuse":      SUSE,
	"opensuse-leap": SUSE,
}

// Product identifies a Linux distribution family and release version (e.g. Red Hat 7.9).
type Product struct {
	Release
	Version semver.Version
}

func (p Product) String() string {
	return fmt.Sprintf("%s %s", p.Release, p.Version.String())
}

// newProduct initializes a new Product given the os-release identity fields as
// input. It attempts to parse the version into a new semver.Version and then
// matches the ID (or, failing that, the ID_LIKE tokens) to a known Release.
func newProduct(id, idLike, version string) (*Product, error) {
	ver, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("product version %q: %w", version, err)
	}

	release := getIDRelease(id, idLike)

	product := &Product{
		Release: release,
		Version: *ver,
	}

	return product, nil
}

// getIDRelease checks the ID and ID_LIKE tokens against the known release IDs to
// determine which Release the host belongs to.
func getIDRelease(id, idLike string) Release {
	if release, ok := releaseIDs[strings.ToLower(id)]; ok {
		return release
	}

	for _, token := range strings.Fields(strings.ToLower(idLike)) {
		if release, ok := releaseIDs[token]; ok {
			return release
		}
	}

	return Unknown
}
