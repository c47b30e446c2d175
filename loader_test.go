package fatrecov

import (
	"path/filepath"
	"testing"

	"github.com/aligator/fatrecov/internal/imagetest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	valid := imagetest.Default().Bytes()

	modified := func(modify func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return modify(b)
	}

	tests := []struct {
		name    string
		data    []byte
		path    string
		wantErr error
	}{
		{
			name: "valid image",
			data: valid,
		},
		{
			name:    "missing image",
			path:    "/missing.img",
			wantErr: ErrOpenImage,
		},
		{
			name:    "smaller than a boot sector",
			data:    valid[:bootSectorSize-1],
			wantErr: ErrImageTooSmall,
		},
		{
			name: "bad signature",
			data: modified(func(b []byte) []byte {
				b[510] = 0
				return b
			}),
			wantErr: ErrBadSignature,
		},
		{
			name: "image larger than declared",
			data: modified(func(b []byte) []byte {
				return append(b, make([]byte, 512)...)
			}),
			wantErr: ErrSizeMismatch,
		},
		{
			name: "image smaller than declared",
			data: modified(func(b []byte) []byte {
				return b[:len(b)-1]
			}),
			wantErr: ErrSizeMismatch,
		},
		{
			name: "no sectors per cluster",
			data: modified(func(b []byte) []byte {
				b[13] = 0
				return b
			}),
			wantErr: ErrInvalidGeometry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/fat32.img", tt.data, 0o644))

			path := tt.path
			if path == "" {
				path = "/fat32.img"
			}

			volume, err := Open(fs, path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, volume)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.data, volume.Bytes())
			assert.Equal(t, int64(len(tt.data)), volume.Size())
			assert.Equal(t, uint32(64), volume.Geometry().ClusterCount)
			bs := volume.BootSector()
			assert.Equal(t, "FAT32   ", string(bs.BSFileSystemType[:]))
			assert.NoError(t, volume.Close())
			assert.Nil(t, volume.Bytes())
		})
	}
}

func TestOpen_Mapped(t *testing.T) {
	img := imagetest.Default()
	img.PutSlots(2, 0, imagetest.Group("picture.bmp", imagetest.ShortName("PIC.BMP"), 10, 100)...)
	img.PutData(10, imagetest.Bitmap(100))

	fs := afero.NewOsFs()
	path := filepath.Join(t.TempDir(), "fat32.img")
	require.NoError(t, afero.WriteFile(fs, path, img.Bytes(), 0o644))

	volume, err := Open(fs, path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, volume.Close())
	}()

	assert.Equal(t, img.Bytes(), volume.Bytes())

	collector := &Collector{}
	NewScanner(volume, collector, Options{}).Run()
	assert.Equal(t, []string{"picture.bmp"}, testingNames(collector.Files()))
}

func TestVolume_Cluster(t *testing.T) {
	img := imagetest.Default()
	img.PutData(2, []byte("first"))
	img.PutData(65, []byte("last"))
	volume := testingVolume(t, img)

	assert.Nil(t, volume.Cluster(0))
	assert.Nil(t, volume.Cluster(1))
	assert.Nil(t, volume.Cluster(66))

	first := volume.Cluster(2)
	require.Len(t, first, 512)
	assert.Equal(t, "first", string(first[:5]))
	assert.Equal(t, 512, cap(first))

	last := volume.Cluster(65)
	require.Len(t, last, 512)
	assert.Equal(t, "last", string(last[:4]))
}

func TestVolume_CloseTwice(t *testing.T) {
	volume := testingVolume(t, imagetest.Default())
	assert.NoError(t, volume.Close())
	assert.NoError(t, volume.Close())
}
