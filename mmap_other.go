//go:build !unix

package fatrecov

import "github.com/spf13/afero"

func mapImage(file afero.File, size int64) ([]byte, func() error, error) {
	return readImage(file, size)
}
