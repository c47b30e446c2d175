package fatrecov

// DefaultMaxFileSize is the largest file size a short entry may declare and still be
// considered plausible.
const DefaultMaxFileSize = 64 << 20

// SlotKind tells how a 32 byte directory slot was interpreted.
type SlotKind uint8

const (
	SlotInvalid SlotKind = iota
	SlotShort
	SlotLong
)

func (k SlotKind) String() string {
	switch k {
	case SlotShort:
		return "short"
	case SlotLong:
		return "long"
	default:
		return "invalid"
	}
}

// Slot is a decoded directory slot together with its byte offset in the volume.
// Short is only meaningful if Kind is SlotShort, Long only if Kind is SlotLong.
type Slot struct {
	Offset int64
	Kind   SlotKind
	Short  EntryHeader
	Long   LongFilenameEntry
}

// Checksum returns the short name checksum the slot belongs to.
// Long fragments store it, short entries compute it from their name.
func (s *Slot) Checksum() byte {
	if s.Kind == SlotLong {
		return s.Long.Checksum
	}
	return Checksum(s.Short.Name)
}

// Checksum calculates the checksum of an 11 byte short name as stored in every
// long name fragment belonging to it.
func Checksum(name [11]byte) byte {
	var sum byte
	for _, b := range name {
		sum = (sum&1)<<7 | sum>>1
		sum += b
	}
	return sum
}

// validator implements the structural plausibility checks. They never consult the
// allocation table, which is useless for deleted files.
type validator struct {
	geometry    Geometry
	maxFileSize uint32
}

// isShort checks a short entry. Dot entries and deleted entries are accepted
// without looking at cluster and size.
func (v validator) isShort(h *EntryHeader) bool {
	if h.Name[0] == 0x00 {
		return false
	}
	if h.Attribute&0xC0 != 0 || h.NTReserved != 0 {
		return false
	}
	if h.Name[0] == '.' || h.Name[0] == deletedMarker {
		return true
	}
	if !v.geometry.ValidCluster(h.Cluster()) {
		return false
	}
	return h.FileSize <= v.maxFileSize
}

// isLong checks a long name fragment.
func isLong(l *LongFilenameEntry) bool {
	seq := l.Sequence &^ lastLongEntry
	if seq == 0 || seq > maxSequence {
		return false
	}
	return l.Attribute == AttrLongName && l.EntryType == 0 && l.ClusterLow == 0
}

// classify decodes a slot probing the stricter short entry checks first.
func (v validator) classify(b []byte, offset int64) Slot {
	slot := Slot{Offset: offset}

	if h := decodeEntryHeader(b); v.isShort(&h) {
		slot.Kind = SlotShort
		slot.Short = h
		return slot
	}

	if l := decodeLongFilenameEntry(b); isLong(&l) {
		slot.Kind = SlotLong
		slot.Long = l
	}
	return slot
}

// isDirectoryLike only probes the first slot of a cluster. It is a cheap filter to skip
// clusters which obviously contain no directory data.
func (v validator) isDirectoryLike(cluster []byte) bool {
	if len(cluster) < slotSize {
		return false
	}
	h := decodeEntryHeader(cluster)
	if v.isShort(&h) {
		return true
	}
	l := decodeLongFilenameEntry(cluster)
	return isLong(&l)
}
