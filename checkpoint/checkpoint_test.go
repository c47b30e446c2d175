package checkpoint

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errCategory = errors.New("could not do the thing")
	errCause    = errors.New("disk on fire")
)

type codeError struct {
	code int
}

func (e *codeError) Error() string {
	return "code error"
}

func TestFrom(t *testing.T) {
	assert.NoError(t, From(nil))
	assert.Equal(t, io.EOF, From(io.EOF))
	assert.Equal(t, io.ErrUnexpectedEOF, From(io.ErrUnexpectedEOF))

	err := From(errCause)
	assert.ErrorIs(t, err, errCause)
	assert.Contains(t, err.Error(), "checkpoint_test.go:")
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, errCategory))
	assert.Equal(t, io.EOF, Wrap(io.EOF, errCategory))

	err := Wrap(errCause, errCategory)
	assert.ErrorIs(t, err, errCategory)
	assert.ErrorIs(t, err, errCause)
	assert.False(t, errors.Is(err, fs.ErrClosed))

	msg := err.Error()
	assert.Contains(t, msg, "could not do the thing")
	assert.Contains(t, msg, "disk on fire")
	assert.Equal(t, 2, strings.Count(msg, "File: "))
}

func TestWrap_Nested(t *testing.T) {
	inner := Wrap(&codeError{code: 5}, errCategory)
	outer := Wrap(inner, errors.New("outer"))

	var target *codeError
	if assert.True(t, errors.As(outer, &target)) {
		assert.Equal(t, 5, target.code)
	}
	assert.ErrorIs(t, outer, errCategory)
	assert.Equal(t, 3, strings.Count(outer.Error(), "File: "))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errCause, want: "disk on fire"},
		{name: "from", err: From(errCause), want: "disk on fire"},
		{name: "wrapped", err: Wrap(errCause, errCategory), want: "could not do the thing: disk on fire"},
		{name: "nested", err: Wrap(From(errCause), errCategory), want: "could not do the thing: disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
