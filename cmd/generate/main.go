package main

import (
	"os"
	"path/filepath"

	"github.com/aligator/fatrecov/internal/imagetest"
)

// sampleImage contains one complete entry group, one group split across two clusters
// and a lone short entry, each pointing to a bitmap.
func sampleImage() *imagetest.Image {
	img := imagetest.Default()

	img.PutSlots(2, 0, imagetest.Group("HelloWorldThisIsALoongFileName.bmp", imagetest.ShortName("HELLOW~1.BMP"), 10, 1000)...)
	img.PutData(10, imagetest.Bitmap(1000))

	split := imagetest.Group("split picture name.bmp", imagetest.ShortName("SPLITP~1.BMP"), 20, 700)
	for i := 0; i < 7; i++ {
		short := imagetest.ShortName("FILLER.TXT")
		short[6] = byte('0' + i)
		img.PutSlots(5, 2*i, imagetest.Group("filler"+string(rune('0'+i))+".txt", short, 40, 10)...)
	}
	img.PutSlots(5, 14, split[0], split[1])
	img.PutSlots(9, 0, split[2])
	img.PutData(20, imagetest.Bitmap(700))

	img.PutSlots(12, 0, imagetest.ShortEntry(imagetest.ShortName("LOGO.BMP"), 0x20, 30, 200))
	img.PutData(30, imagetest.Bitmap(200))

	return img
}

// write stores the sample image as dest/sample.img.
func write(dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, "sample.img"), sampleImage().Bytes(), 0o644)
}

// main for writing the sample image. Can be executed using 'go generate' from the project root.
func main() {
	if err := write("testdata"); err != nil {
		panic(err)
	}
}
