package system

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVersionInfo(t *testing.T) {
	t.Run("typical os-release", func(t *testing.T) {
		const sample = `
NAME="Red Hat Enterprise Linux Server"
VERSION="7.9 (Maipo)"
ID="rhel"
ID_LIKE="fedora"
VERSION_ID="7.9"
PRETTY_NAME="Red Hat Enterprise Linux Server 7.9 (Maipo)"
`
		version, err := decodeVersionInfo(strings.NewReader(sample))
		require.NoError(t, err)

		assert.Equal(t, "rhel", version.ID)
		assert.Equal(t, "fedora", version.IDLike)
		assert.Equal(t, "7.9", version.VersionID)
		assert.Equal(t, "Red Hat Enterprise Linux Server", version.Name)
	})

	t.Run("unquoted values and comments", func(t *testing.T) {
		const sample = `
# comment line
ID=ubuntu
VERSION_ID="20.04"
IGNORED_KEY=whatever
not a kv line
`
		version, err := decodeVersionInfo(strings.NewReader(sample))
		require.NoError(t, err)

		assert.Equal(t, "ubuntu", version.ID)
		assert.Equal(t, "20.04", version.VersionID)
	})

	t.Run("empty input", func(t *testing.T) {
		version, err := decodeVersionInfo(strings.NewReader(""))
		require.NoError(t, err)

		assert.Empty(t, version.ID)
		assert.Empty(t, version.VersionID)
	})
}
