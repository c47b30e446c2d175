package fatrecov

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/aligator/fatrecov/checkpoint"
	"github.com/spf13/afero"
)

// DefaultHashAlgorithm matches the output of sha1sum.
const DefaultHashAlgorithm = "sha1"

// HashAlgorithm is a digest usable for the report lines.
type HashAlgorithm struct {
	Name    string
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the algorithm for the given name.
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{Name: "sha1", NewFunc: sha1.New}, nil
	case "sha256":
		return &HashAlgorithm{Name: "sha256", NewFunc: sha256.New}, nil
	case "sha512":
		return &HashAlgorithm{Name: "sha512", NewFunc: sha512.New}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", name)
	}
}

// HashFile calculates the digest of a file.
func HashFile(fs afero.Fs, path string, algorithm *HashAlgorithm) ([]byte, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, checkpoint.From(err)
	}

	return hasher.Sum(nil), nil
}
