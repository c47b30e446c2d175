package fatrecov

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/aligator/fatrecov/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while loading a volume image.
var (
	ErrOpenImage       = errors.New("could not open the image")
	ErrImageSize       = errors.New("could not determine the image size")
	ErrMapImage        = errors.New("could not map the image into memory")
	ErrImageTooSmall   = errors.New("image is smaller than a boot sector")
	ErrBadSignature    = errors.New("invalid boot sector signature")
	ErrInvalidGeometry = errors.New("invalid volume geometry")
	ErrSizeMismatch    = errors.New("image size does not match the boot sector")
)

// Volume is a read-only FAT32 image held in memory.
type Volume struct {
	data     []byte
	boot     BootSector
	geometry Geometry
	release  func() error
}

// Open loads the image at path from fs. Images on the OS filesystem are memory mapped,
// everything else is read into memory. The returned Volume has to be closed.
func Open(fs afero.Fs, path string) (*Volume, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}
	defer file.Close()

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrImageSize)
	}
	if size < bootSectorSize {
		return nil, checkpoint.Wrap(fmt.Errorf("%v has %d bytes", path, size), ErrImageTooSmall)
	}

	data, release, err := mapImage(file, size)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrMapImage)
	}

	volume, err := NewVolume(data)
	if err != nil {
		if releaseErr := release(); releaseErr != nil {
			return nil, checkpoint.Wrap(releaseErr, err)
		}
		return nil, err
	}
	volume.release = release

	return volume, nil
}

// readImage reads the whole file into memory.
func readImage(file afero.File, size int64) ([]byte, func() error, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, checkpoint.From(err)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(file, data); err != nil {
		return nil, nil, checkpoint.From(err)
	}

	return data, func() error { return nil }, nil
}

// NewVolume validates the boot sector of data and derives the volume geometry.
// data is never modified.
func NewVolume(data []byte) (*Volume, error) {
	if len(data) < bootSectorSize {
		return nil, checkpoint.Wrap(fmt.Errorf("got %d bytes", len(data)), ErrImageTooSmall)
	}

	volume := &Volume{data: data}
	err := binary.Read(bytes.NewReader(data[:bootSectorSize]), binary.LittleEndian, &volume.boot)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	bs := &volume.boot

	if bs.Signature != bootSignature {
		return nil, checkpoint.Wrap(fmt.Errorf("signature is 0x%04x", bs.Signature), ErrBadSignature)
	}

	if bs.BytesPerSector == 0 || bs.SectorsPerCluster == 0 {
		return nil, checkpoint.Wrap(fmt.Errorf("%d bytes per sector, %d sectors per cluster", bs.BytesPerSector, bs.SectorsPerCluster), ErrInvalidGeometry)
	}

	declared := int64(bs.TotalSectors32) * int64(bs.BytesPerSector)
	if declared != int64(len(data)) {
		return nil, checkpoint.Wrap(fmt.Errorf("boot sector declares %d bytes, image has %d", declared, len(data)), ErrSizeMismatch)
	}

	volume.geometry = NewGeometry(bs)
	return volume, nil
}

// Close releases the memory of the image. The Volume and every RecoveredFile
// pointing into it must not be used afterwards.
func (v *Volume) Close() error {
	if v.release == nil {
		return nil
	}
	release := v.release
	v.release = nil
	v.data = nil
	return checkpoint.From(release())
}

// Bytes returns the whole image.
func (v *Volume) Bytes() []byte {
	return v.data
}

// Size returns the image size in bytes.
func (v *Volume) Size() int64 {
	return int64(len(v.data))
}

// BootSector returns the decoded boot sector.
func (v *Volume) BootSector() BootSector {
	return v.boot
}

// Geometry returns the layout of the data region.
func (v *Volume) Geometry() Geometry {
	return v.geometry
}

// Cluster returns the bytes of the given cluster or nil if it does not exist or
// is not completely covered by the image.
func (v *Volume) Cluster(cluster uint32) []byte {
	if !v.geometry.ValidCluster(cluster) {
		return nil
	}
	start := v.geometry.ClusterOffset(cluster)
	end := start + v.geometry.ClusterSize
	if end > int64(len(v.data)) || v.geometry.ClusterSize < slotSize {
		return nil
	}
	return v.data[start:end:end]
}
