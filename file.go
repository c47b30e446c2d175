package fatrecov

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aligator/fatrecov/checkpoint"
)

// These errors may occur while reading a recovered file.
var (
	ErrReadFile    = errors.New("could not read file completely")
	ErrSeekFile    = errors.New("could not seek inside of the file")
	ErrReadDir     = errors.New("could not read the directory")
	ErrIsDirectory = errors.New("is a directory")
)

// File is an opened recovered file. Its content is read straight from the volume.
type File struct {
	reader *bytes.Reader
	stat   fileInfo
}

func newFile(name string, recovered *RecoveredFile) *File {
	return &File{
		reader: bytes.NewReader(recovered.Data),
		stat:   recoveredFileInfo(name, recovered),
	}
}

func (f *File) Close() error {
	if f.reader == nil {
		return checkpoint.From(fs.ErrClosed)
	}
	f.reader = nil
	return nil
}

func (f *File) Read(p []byte) (int, error) {
	if f.reader == nil {
		return 0, checkpoint.Wrap(fs.ErrClosed, ErrReadFile)
	}

	n, err := f.reader.Read(p)
	if err != nil && err != io.EOF {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.reader == nil {
		return 0, checkpoint.Wrap(fs.ErrClosed, ErrReadFile)
	}

	n, err := f.reader.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	return n, err
}

// Seek jumps to a specific offset in the file. This affects all Read operations except ReadAt.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.reader == nil {
		return 0, checkpoint.Wrap(fs.ErrClosed, ErrSeekFile)
	}

	pos, err := f.reader.Seek(offset, whence)
	if err != nil {
		return pos, checkpoint.Wrap(fmt.Errorf("%w, offset: %v, whence: %v", err, offset, whence), ErrSeekFile)
	}
	return pos, nil
}

func (f *File) Name() string {
	return f.stat.Name()
}

func (f *File) Stat() (fs.FileInfo, error) {
	return f.stat, nil
}

// rootDir is the only directory of a RecoveredFS.
type rootDir struct {
	fsys   *RecoveredFS
	offset int
	closed bool
}

func (d *rootDir) Stat() (fs.FileInfo, error) {
	return rootInfo, nil
}

func (d *rootDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: ErrIsDirectory}
}

func (d *rootDir) Close() error {
	d.closed = true
	return nil
}

// ReadDir reads the contents of the directory like fs.ReadDirFile specifies it.
func (d *rootDir) ReadDir(count int) ([]fs.DirEntry, error) {
	if d.closed {
		return nil, checkpoint.Wrap(fs.ErrClosed, ErrReadDir)
	}

	names := d.fsys.names
	remaining := len(names) - d.offset
	if count > 0 && remaining == 0 {
		return nil, io.EOF
	}
	if count > 0 && count < remaining {
		remaining = count
	}

	entries := make([]fs.DirEntry, remaining)
	for i := range entries {
		idx := d.offset + i
		entries[i] = dirEntry{recoveredFileInfo(names[idx], &d.fsys.files[idx])}
	}
	d.offset += remaining

	return entries, nil
}
