package fatrecov

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aligator/fatrecov/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while emitting a recovered file.
var (
	ErrTempFile  = errors.New("could not write the temporary file")
	ErrHashFile  = errors.New("could not hash the recovered file")
	ErrKeepFile  = errors.New("could not store the recovered file")
	ErrWriteLine = errors.New("could not write the report line")
)

const tempFilePattern = "frec_"

// Sink receives every recovered file.
// Generated mock using mockgen:
//  mockgen -source=sink.go -destination=sink_mock.go -package fatrecov
type Sink interface {
	Emit(file RecoveredFile) error
}

// HashSinkOptions configure a HashSink.
type HashSinkOptions struct {
	// TempDir holds the temporary files. Empty means the output directory
	// if set, else the default temporary directory.
	TempDir string
	// OutputDir keeps every recovered file if not empty.
	OutputDir string
}

// HashSink writes each recovered file to a temporary file, hashes it and reports
// "<hex digest>  <name>" to out.
type HashSink struct {
	fs        afero.Fs
	out       io.Writer
	algorithm *HashAlgorithm
	options   HashSinkOptions
}

// NewHashSink creates a HashSink using fs for all temporary and kept files.
func NewHashSink(fs afero.Fs, out io.Writer, algorithm *HashAlgorithm, options HashSinkOptions) *HashSink {
	if options.TempDir == "" {
		options.TempDir = options.OutputDir
	}

	return &HashSink{
		fs:        fs,
		out:       out,
		algorithm: algorithm,
		options:   options,
	}
}

// Emit reports a single file. The temporary file is removed on every path unless
// it was moved into the output directory.
func (s *HashSink) Emit(file RecoveredFile) error {
	if s.options.TempDir != "" {
		if err := s.fs.MkdirAll(s.options.TempDir, 0o755); err != nil {
			return checkpoint.Wrap(err, ErrTempFile)
		}
	}

	tmp, err := afero.TempFile(s.fs, s.options.TempDir, tempFilePattern)
	if err != nil {
		return checkpoint.Wrap(err, ErrTempFile)
	}
	tmpPath := tmp.Name()

	kept := false
	defer func() {
		if !kept {
			_ = s.fs.Remove(tmpPath)
		}
	}()

	_, err = tmp.Write(file.Data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return checkpoint.Wrap(err, ErrTempFile)
	}

	sum, err := HashFile(s.fs, tmpPath, s.algorithm)
	if err != nil {
		return checkpoint.Wrap(err, ErrHashFile)
	}

	if s.options.OutputDir == "" {
		return s.report(sum, file.Name)
	}

	dest, err := s.keep(tmpPath, &file)
	if err != nil {
		return checkpoint.Wrap(err, ErrKeepFile)
	}
	kept = true

	if err := s.report(sum, file.Name); err != nil {
		_ = s.fs.Remove(dest)
		return err
	}
	return nil
}

func (s *HashSink) report(sum []byte, name string) error {
	if _, err := fmt.Fprintf(s.out, "%s  %s\n", hex.EncodeToString(sum), escapeControl(name)); err != nil {
		return checkpoint.Wrap(err, ErrWriteLine)
	}
	return nil
}

// keep moves the temporary file into the output directory and returns its new path.
// Nothing is left in the output directory if it fails.
func (s *HashSink) keep(tmpPath string, file *RecoveredFile) (string, error) {
	if err := s.fs.MkdirAll(s.options.OutputDir, 0o755); err != nil {
		return "", checkpoint.From(err)
	}

	dest, err := s.uniquePath(sanitizeName(file.Name))
	if err != nil {
		return "", err
	}

	if err := s.fs.Rename(tmpPath, dest); err != nil {
		return "", checkpoint.From(err)
	}

	if !file.ModTime.IsZero() {
		if err := s.fs.Chtimes(dest, file.ModTime, file.ModTime); err != nil {
			_ = s.fs.Remove(dest)
			return "", checkpoint.From(err)
		}
	}
	return dest, nil
}

// uniquePath appends a counter to name until no file with that name exists.
func (s *HashSink) uniquePath(name string) (string, error) {
	dest := filepath.Join(s.options.OutputDir, name)

	for i := 1; ; i++ {
		_, err := s.fs.Stat(dest)
		if os.IsNotExist(err) {
			return dest, nil
		}
		if err != nil {
			return "", checkpoint.From(err)
		}
		dest = filepath.Join(s.options.OutputDir, numberedName(name, i))
	}
}
