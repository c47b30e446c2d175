package fatrecov

import (
	"io/fs"
	"time"
)

type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	sys     interface{}
}

var rootInfo = fileInfo{name: ".", mode: fs.ModeDir | 0o555}

// recoveredFileInfo describes a recovered file. The size is the recoverable size,
// which may be less than the size the directory entry declared.
func recoveredFileInfo(name string, file *RecoveredFile) fileInfo {
	return fileInfo{
		name:    name,
		size:    file.Size(),
		mode:    0o444,
		modTime: file.ModTime,
		sys:     *file,
	}
}

func (i fileInfo) Name() string {
	return i.name
}

func (i fileInfo) Size() int64 {
	return i.size
}

func (i fileInfo) Mode() fs.FileMode {
	return i.mode
}

func (i fileInfo) ModTime() time.Time {
	return i.modTime
}

func (i fileInfo) IsDir() bool {
	return i.mode.IsDir()
}

// Sys returns the RecoveredFile for files and nil for the root directory.
func (i fileInfo) Sys() interface{} {
	return i.sys
}

type dirEntry struct {
	fs.FileInfo
}

func (e dirEntry) Type() fs.FileMode {
	return e.FileInfo.Mode().Type()
}

func (e dirEntry) Info() (fs.FileInfo, error) {
	return e.FileInfo, nil
}
