package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/aligator/fatrecov"
	"github.com/spf13/afero"
)

// main is just a example main to play with the recovery API. It lists every
// recovered file and prints the start of the first one.
func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) <= 0 {
		fmt.Println("Please provide a filename.")
		os.Exit(1)
	}

	volume, err := fatrecov.Open(afero.NewOsFs(), argsWithoutProg[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer volume.Close()

	geometry := volume.Geometry()
	fmt.Printf("Opened volume with %v clusters of %v bytes\n\n", geometry.ClusterCount, geometry.ClusterSize)

	collector := &fatrecov.Collector{}
	stats := fatrecov.NewScanner(volume, collector, fatrecov.Options{}).Run()
	fmt.Printf("%+v\n\n", stats)

	recovered := collector.FS()
	err = fs.WalkDir(recovered, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		fmt.Println(path, info.IsDir(), info.Size(), info.ModTime())
		return nil
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	names := recovered.Names()
	if len(names) == 0 {
		return
	}

	file, err := recovered.Open(names[0])
	if err != nil {
		fmt.Println("could not open the recovered file", err)
		os.Exit(1)
	}
	defer file.Close()

	buffer := make([]byte, 16)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF {
		fmt.Println("could not read the file", err)
		os.Exit(1)
	}

	fmt.Printf("\n%v starts with % x\n", names[0], buffer[:n])
}
