// Package system provides the functionality necessary for identifying the host
// Linux distribution and release version.
package system

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// osReleasePath is the standard path to the os-release file on the root filesystem.
	osReleasePath = "/etc/os-release"

	// usrLibOSReleasePath is the fallback location read when osReleasePath does not
	// exist, per os-release(5).
	usrLibOSReleasePath = "/usr/lib/os-release"
)

// System correlates VersionInfo with a Product.
type System struct {
	versionInfo *VersionInfo
	product     *Product
}

func (sys *System) Product() *Product {
	return sys.product
}

// Scan reads the VersionInfo and creates a new System struct from that and the associated Product.
func Scan() (*System, error) {
	version, err := readVersion()
	if err != nil {
		return nil, err
	}

	product, err := version.Product()
	if err != nil {
		return nil, err
	}

	system := &System{
		versionInfo: version,
		product:     product,
	}

	return system, nil
}

// VersionInfo mirrors the raw data found in the os-release file.
type VersionInfo struct {
	ID         string
	IDLike     string
	Name       string
	PrettyName string
	VersionID  string
}

// Product determines the specific product that the VersionInfo is associated with.
func (v *VersionInfo) Product() (*Product, error) {
	return newProduct(v.ID, v.IDLike, v.VersionID)
}

// decodeVersionInfo reads os-release KEY=value pairs from the reader into a new
// VersionInfo struct. Unknown keys are skipped; values may be double-quoted.
func decodeVersionInfo(reader io.Reader) (*VersionInfo, error) {
	version := &VersionInfo{}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)

		switch key {
		case "ID":
			version.ID = value
		case "ID_LIKE":
			version.IDLike = value
		case "NAME":
			version.Name = value
		case "PRETTY_NAME":
			version.PrettyName = value
		case "VERSION_ID":
			version.VersionID = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("system failed to decode contents of reader: %w", err)
	}

	return version, nil
}

// readVersion reads the os-release data from disk, falling back to the /usr/lib
// location when the /etc file is absent.
func readVersion() (*VersionInfo, error) {
	version, err := readOSReleaseFile(osReleasePath)
	if os.IsNotExist(err) {
		return readOSReleaseFile(usrLibOSReleasePath)
	}

	return version, err
}

// readOSReleaseFile opens the given file and attempts to decode it as VersionInfo.
func readOSReleaseFile(path string) (*VersionInfo, error) {
	releaseFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer releaseFile.Close()

	version, err := decodeVersionInfo(releaseFile)
	if err != nil {
		return nil, err
	}

	return version, nil
}
