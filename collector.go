package fatrecov

import (
	"io/fs"
)

// Collector is a Sink which keeps every recovered file in memory.
type Collector struct {
	files []RecoveredFile
}

func (c *Collector) Emit(file RecoveredFile) error {
	c.files = append(c.files, file)
	return nil
}

// Files returns the recovered files in the order they were found.
func (c *Collector) Files() []RecoveredFile {
	return c.files
}

// FS exposes the collected files as a flat fs.FS.
func (c *Collector) FS() *RecoveredFS {
	return NewRecoveredFS(c.files)
}

// RecoveredFS serves recovered files from the volume buffer as a single flat directory.
// Names are sanitized and made unique by appending ~1, ~2 ... in front of the extension.
// The volume has to stay open while the filesystem is used.
type RecoveredFS struct {
	files  []RecoveredFile
	names  []string
	byName map[string]int
}

// NewRecoveredFS creates a filesystem for the given files.
func NewRecoveredFS(files []RecoveredFile) *RecoveredFS {
	r := &RecoveredFS{
		files:  files,
		names:  make([]string, len(files)),
		byName: make(map[string]int, len(files)),
	}

	for i := range files {
		base := sanitizeName(files[i].Name)
		name := base
		for n := 1; ; n++ {
			if _, taken := r.byName[name]; !taken {
				break
			}
			name = numberedName(base, n)
		}

		r.names[i] = name
		r.byName[name] = i
	}

	return r
}

// Open opens the root directory "." or one of the recovered files.
func (r *RecoveredFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &rootDir{fsys: r}, nil
	}

	i, ok := r.byName[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return newFile(name, &r.files[i]), nil
}

// Names returns the file names in discovery order.
func (r *RecoveredFS) Names() []string {
	return r.names
}
