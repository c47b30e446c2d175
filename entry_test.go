package fatrecov

import (
	"testing"

	"github.com/aligator/fatrecov/internal/imagetest"
	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want byte
	}{
		{name: "FOO", in: "FOO        ", want: 0x88},
		{name: "bitmap", in: "PIC     BMP", want: 0x28},
		{name: "text", in: "HELLO   TXT", want: 0xf1},
		{name: "generated short name", in: "LONGNA~1BMP", want: 0xe6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var name [11]byte
			copy(name[:], tt.in)

			assert.Equal(t, tt.want, Checksum(name))
			assert.Equal(t, Checksum(name), Checksum(name), "recomputation has to be stable")
			assert.Equal(t, imagetest.Checksum(name), Checksum(name))
		})
	}
}

func TestValidator_isShort(t *testing.T) {
	pic := imagetest.ShortName("PIC.BMP")
	count := imagetest.DefaultLayout.Clusters

	withName := func(first byte) [11]byte {
		name := pic
		name[0] = first
		return name
	}

	tests := []struct {
		name  string
		entry EntryHeader
		want  bool
	}{
		{
			name:  "plausible file",
			entry: EntryHeader{Name: pic, Attribute: AttrArchive, FirstClusterLO: 5, FileSize: 1000},
			want:  true,
		},
		{
			name:  "free slot",
			entry: EntryHeader{FirstClusterLO: 5},
			want:  false,
		},
		{
			name:  "high attribute bits",
			entry: EntryHeader{Name: pic, Attribute: 0x40, FirstClusterLO: 5},
			want:  false,
		},
		{
			name:  "reserved byte set",
			entry: EntryHeader{Name: pic, NTReserved: 0x08, FirstClusterLO: 5},
			want:  false,
		},
		{
			name:  "cluster 0",
			entry: EntryHeader{Name: pic},
			want:  false,
		},
		{
			name:  "cluster 1",
			entry: EntryHeader{Name: pic, FirstClusterLO: 1},
			want:  false,
		},
		{
			name:  "last cluster",
			entry: EntryHeader{Name: pic, FirstClusterLO: uint16(count + 1)},
			want:  true,
		},
		{
			name:  "cluster behind the last one",
			entry: EntryHeader{Name: pic, FirstClusterLO: uint16(count + 2)},
			want:  false,
		},
		{
			name:  "high cluster half",
			entry: EntryHeader{Name: pic, FirstClusterHI: 1, FirstClusterLO: 5},
			want:  false,
		},
		{
			name:  "size at the cap",
			entry: EntryHeader{Name: pic, FirstClusterLO: 5, FileSize: DefaultMaxFileSize},
			want:  true,
		},
		{
			name:  "size above the cap",
			entry: EntryHeader{Name: pic, FirstClusterLO: 5, FileSize: DefaultMaxFileSize + 1},
			want:  false,
		},
		{
			name:  "dot entry without cluster",
			entry: EntryHeader{Name: withName('.'), Attribute: AttrDirectory},
			want:  true,
		},
		{
			name:  "deleted entry with garbage",
			entry: EntryHeader{Name: withName(deletedMarker), FirstClusterHI: 0xFFFF, FileSize: 0xFFFFFFFF},
			want:  true,
		},
		{
			name:  "deleted entry with high attribute bits",
			entry: EntryHeader{Name: withName(deletedMarker), Attribute: 0x80},
			want:  false,
		},
	}

	v := testingValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.isShort(&tt.entry))
		})
	}
}

func TestIsLong(t *testing.T) {
	tests := []struct {
		name  string
		entry LongFilenameEntry
		want  bool
	}{
		{name: "first fragment", entry: LongFilenameEntry{Sequence: 1, Attribute: AttrLongName}, want: true},
		{name: "final fragment", entry: LongFilenameEntry{Sequence: 3 | lastLongEntry, Attribute: AttrLongName}, want: true},
		{name: "highest sequence", entry: LongFilenameEntry{Sequence: maxSequence, Attribute: AttrLongName}, want: true},
		{name: "sequence 0", entry: LongFilenameEntry{Sequence: lastLongEntry, Attribute: AttrLongName}, want: false},
		{name: "sequence too high", entry: LongFilenameEntry{Sequence: maxSequence + 1, Attribute: AttrLongName}, want: false},
		{name: "wrong attribute", entry: LongFilenameEntry{Sequence: 1, Attribute: AttrArchive}, want: false},
		{name: "type set", entry: LongFilenameEntry{Sequence: 1, Attribute: AttrLongName, EntryType: 1}, want: false},
		{name: "cluster set", entry: LongFilenameEntry{Sequence: 1, Attribute: AttrLongName, ClusterLow: 2}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLong(&tt.entry))
		})
	}
}

func TestValidator_classify(t *testing.T) {
	short := imagetest.ShortName("PIC.BMP")
	long := imagetest.LongEntries("picture.bmp", short)[0]

	tests := []struct {
		name string
		slot []byte
		want SlotKind
	}{
		{name: "short entry", slot: imagetest.ShortEntry(short, AttrArchive, 5, 100), want: SlotShort},
		{name: "long fragment", slot: long, want: SlotLong},
		{name: "zeroes", slot: make([]byte, slotSize), want: SlotInvalid},
		{name: "bitmap data", slot: imagetest.Bitmap(slotSize), want: SlotInvalid},
	}

	v := testingValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.classify(tt.slot, 0x1234)
			assert.Equal(t, tt.want, got.Kind, got.Kind.String())
			assert.Equal(t, int64(0x1234), got.Offset)
		})
	}
}

func TestSlot_Checksum(t *testing.T) {
	short := imagetest.ShortName("LONGNA~1.BMP")
	group := imagetest.Group("long name.bmp", short, 5, 10)

	v := testingValidator(t)
	want := Checksum(short)
	for i, raw := range group {
		slot := v.classify(raw, 0)
		assert.NotEqual(t, SlotInvalid, slot.Kind)
		assert.Equal(t, want, slot.Checksum(), "slot %d", i)
	}
}

func TestValidator_isDirectoryLike(t *testing.T) {
	short := imagetest.ShortName("PIC.BMP")

	v := testingValidator(t)
	assert.True(t, v.isDirectoryLike(imagetest.ShortEntry(short, AttrArchive, 5, 100)))
	assert.True(t, v.isDirectoryLike(imagetest.LongEntries("picture.bmp", short)[0]))
	assert.False(t, v.isDirectoryLike(make([]byte, 512)))
	assert.False(t, v.isDirectoryLike(imagetest.Bitmap(512)))
	assert.False(t, v.isDirectoryLike(make([]byte, slotSize-1)))
}
