package fatrecov

import (
	"bytes"
	"time"

	log "github.com/sirupsen/logrus"
)

// bitmapSignature starts every BMP file. It is the only content recognized.
var bitmapSignature = []byte("BM")

// RecoveredFile describes a file found through the directory entry of a deleted file.
// Data points directly into the volume buffer and must not be modified.
type RecoveredFile struct {
	Name    string
	Cluster uint32
	// Offset is the byte offset of the first cluster in the volume.
	Offset int64
	// DeclaredSize is the size stored in the short entry. len(Data) may be smaller.
	DeclaredSize uint32
	ModTime      time.Time
	Data         []byte
}

// Size returns the number of recoverable bytes.
func (f *RecoveredFile) Size() int64 {
	return int64(len(f.Data))
}

// Extract turns a complete entry group into a RecoveredFile. It returns false if the
// group does not describe a recoverable bitmap.
func (s *Scanner) Extract(group EntryGroup) (RecoveredFile, bool) {
	short, ok := group.Short()
	if !ok {
		log.Trace("group without terminating short entry")
		return RecoveredFile{}, false
	}
	h := &short.Short
	cluster := h.Cluster()

	switch {
	case !s.volume.Geometry().ValidCluster(cluster):
		log.Tracef("entry at 0x%x: cluster %d out of range", short.Offset, cluster)
		return RecoveredFile{}, false
	case h.Attribute&AttrDirectory != 0:
		log.Tracef("entry at 0x%x: directory", short.Offset)
		return RecoveredFile{}, false
	case h.Name[0] == deletedMarker:
		log.Tracef("entry at 0x%x: still marked deleted", short.Offset)
		return RecoveredFile{}, false
	}

	offset := s.volume.Geometry().ClusterOffset(cluster)
	data := s.volume.Bytes()
	if offset+int64(len(bitmapSignature)) > int64(len(data)) {
		return RecoveredFile{}, false
	}
	if !bytes.HasPrefix(data[offset:], bitmapSignature) {
		log.Debugf("entry at 0x%x: cluster %d does not start with a bitmap signature", short.Offset, cluster)
		return RecoveredFile{}, false
	}

	name := longName(group.Fragments())
	if name == "" {
		name = shortName(h.Name)
	}
	name = TrimAfterExtension(name, BitmapExtension)

	size := int64(h.FileSize)
	if remaining := int64(len(data)) - offset; size > remaining {
		size = remaining
	}

	return RecoveredFile{
		Name:         name,
		Cluster:      cluster,
		Offset:       offset,
		DeclaredSize: h.FileSize,
		ModTime:      h.ModTime(),
		Data:         data[offset : offset+size : offset+size],
	}, true
}
