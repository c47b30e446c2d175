//go:build unix

package fatrecov

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// mapImage maps OS files read-only and privately. Other afero files are read.
func mapImage(file afero.File, size int64) ([]byte, func() error, error) {
	osFile, ok := file.(*os.File)
	if !ok {
		return readImage(file, size)
	}

	data, err := unix.Mmap(int(osFile.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
