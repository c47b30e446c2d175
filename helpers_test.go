package fatrecov

import (
	"testing"

	"github.com/aligator/fatrecov/internal/imagetest"
	"github.com/stretchr/testify/require"
)

func testingVolume(t *testing.T, img *imagetest.Image) *Volume {
	t.Helper()
	volume, err := NewVolume(img.Bytes())
	require.NoError(t, err)
	return volume
}

// testingScan scans img and returns every recovered file in emission order.
func testingScan(t *testing.T, img *imagetest.Image) ([]RecoveredFile, Stats) {
	t.Helper()
	collector := &Collector{}
	stats := NewScanner(testingVolume(t, img), collector, Options{}).Run()
	return collector.Files(), stats
}

func testingNames(files []RecoveredFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// testingValidator returns the validator of a default test image.
func testingValidator(t *testing.T) validator {
	t.Helper()
	return NewScanner(testingVolume(t, imagetest.Default()), &Collector{}, Options{}).check
}
