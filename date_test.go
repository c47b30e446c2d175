package fatrecov

import (
	"reflect"
	"testing"
	"time"

	"github.com/aligator/fatrecov/internal/imagetest"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{
			name:  "first valid date",
			input: 0<<9 | 1<<5 | 1,
			want:  time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "last valid date",
			input: 127<<9 | 12<<5 | 31,
			want:  time.Date(2107, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "day 0",
			input: 41<<9 | 3<<5,
			want:  time.Time{},
		},
		{
			name:  "month 0",
			input: 41<<9 | 14,
			want:  time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDate(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{
			name:  "midnight",
			input: 0,
			want:  time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "2 second granularity",
			input: 15<<11 | 9<<5 | 13,
			want:  time.Date(1, 1, 1, 15, 9, 26, 0, time.UTC),
		},
		{
			name:  "hour out of range",
			input: 31<<11 | 59<<5 | 29,
			want:  time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTime(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryHeader_ModTime(t *testing.T) {
	h := EntryHeader{WriteTime: imagetest.ModTimeStamp, WriteDate: imagetest.ModDateStamp}
	want := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	if got := h.ModTime(); !got.Equal(want) {
		t.Errorf("ModTime() = %v, want %v", got, want)
	}

	h.WriteDate = 0
	if got := h.ModTime(); !got.IsZero() {
		t.Errorf("ModTime() = %v, want zero time", got)
	}
}
