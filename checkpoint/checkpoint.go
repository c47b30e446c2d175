// Package checkpoint decorates errors with the file and line they passed through,
// which results in something similar to a stacktrace.
// Each error added to a checkpoint can be checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err by a checkpoint holding the caller location.
// It returns nil if err is nil. io.EOF and io.ErrUnexpectedEOF are passed through
// unchanged as callers compare them with ==.
func From(err error) error {
	if err == nil || isPlainSentinel(err) {
		return err
	}
	return newCheckpoint(nil, err)
}

// Wrap adds a checkpoint to prev which is further described by err.
// errors.Is matches both, so predefined errors can be used as categories:
//  var ErrHashFile = errors.New("could not hash the recovered file")
//
//  func hash() error {
//  	_, err := io.Copy(h, f)
//  	return checkpoint.Wrap(err, ErrHashFile)
//  }
// Wrap returns nil if prev is nil.
func Wrap(prev, err error) error {
	if prev == nil || prev == io.EOF {
		return prev
	}
	return newCheckpoint(err, prev)
}

func isPlainSentinel(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and From/Wrap.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:      err,
		prev:     prev,
		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	// err describes the checkpoint, it may be nil if created by From.
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) location() string {
	if !e.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	prev := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prev = "File: unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}

	if e.err == nil {
		return fmt.Sprintf("File: %s\n%v", e.location(), prev)
	}
	return fmt.Sprintf("File: %s\n\t%v\n%v", e.location(), e.err, prev)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}

// Message returns the innermost description of err without any location information.
// It is meant for short messages shown to users.
func Message(err error) string {
	var cp *checkpoint
	for errors.As(err, &cp) {
		if cp.err != nil {
			return fmt.Sprintf("%v: %v", cp.err, Message(cp.prev))
		}
		err = cp.prev
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
