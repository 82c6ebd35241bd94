package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		idLike      string
		version     string
		wantRelease Release
		wantErr     bool
	}{
		{
			name:        "rhel by id",
			id:          "rhel",
			idLike:      "fedora",
			version:     "7.9",
			wantRelease: RedHat,
		},
		{
			name:        "centos by id",
			id:          "centos",
			idLike:      "rhel fedora",
			version:     "7.4",
			wantRelease: CentOS,
		},
		{
			name:        "ubuntu by id",
			id:          "ubuntu",
			idLike:      "debian",
			version:     "20.04",
			wantRelease: Ubuntu,
		},
		{
			name:        "sles by id",
			id:          "sles",
			version:     "10.4",
			wantRelease: SUSE,
		},
		{
			name:        "family fallback through id_like",
			id:          "rocky",
			idLike:      "rhel centos fedora",
			version:     "8.6",
			wantRelease: RedHat,
		},
		{
			name:        "unknown distribution",
			id:          "plan9",
			version:     "1.0",
			wantRelease: Unknown,
		},
		{
			name:    "unparsable version",
			id:      "rhel",
			version: "seven",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := newProduct(tt.id, tt.idLike, tt.version)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRelease, product.Release)
		})
	}
}
