// File model contains the structs which match the on-disk structures of a FAT32 volume
// and the explicit decoders for the 32 byte directory slots.

package fatrecov

import "encoding/binary"

const (
	bootSectorSize = 512
	slotSize       = 32
	bootSignature  = 0xAA55
)

// Directory entry attribute bits.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	// deletedMarker is stored in the first name byte of a deleted short entry.
	deletedMarker = 0xE5
	// lastLongEntry marks the long name fragment with the highest sequence number,
	// which is the first one physically stored.
	lastLongEntry = 0x40
	sequenceMask  = 0x1F
	maxSequence   = 20
)

// BootSector is the first sector of a FAT32 volume including the BIOS Parameter Block.
type BootSector struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FAT32SpecificData
	BootCode  [420]byte
	Signature uint16
}

type FAT32SpecificData struct {
	FATSize32        uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is a short (8.3) directory entry.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// Cluster joins both halves of the first cluster number.
func (h *EntryHeader) Cluster() uint32 {
	return uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO)
}

// LongFilenameEntry is one fragment of a long file name. It carries 13 UTF-16
// code units split over First, Second and Third.
type LongFilenameEntry struct {
	Sequence   byte
	First      [5]uint16
	Attribute  byte
	EntryType  byte
	Checksum   byte
	Second     [6]uint16
	ClusterLow uint16
	Third      [2]uint16
}

// Index returns the 1-based position of the fragment inside its name.
func (l *LongFilenameEntry) Index() int {
	return int(l.Sequence & sequenceMask)
}

// IsLast reports whether the fragment carries the final fragment marker.
func (l *LongFilenameEntry) IsLast() bool {
	return l.Sequence&lastLongEntry != 0
}

func decodeEntryHeader(b []byte) EntryHeader {
	le := binary.LittleEndian
	var h EntryHeader
	copy(h.Name[:], b[0:11])
	h.Attribute = b[11]
	h.NTReserved = b[12]
	h.CreateTimeTenth = b[13]
	h.CreateTime = le.Uint16(b[14:16])
	h.CreateDate = le.Uint16(b[16:18])
	h.LastAccessDate = le.Uint16(b[18:20])
	h.FirstClusterHI = le.Uint16(b[20:22])
	h.WriteTime = le.Uint16(b[22:24])
	h.WriteDate = le.Uint16(b[24:26])
	h.FirstClusterLO = le.Uint16(b[26:28])
	h.FileSize = le.Uint32(b[28:32])
	return h
}

func decodeLongFilenameEntry(b []byte) LongFilenameEntry {
	le := binary.LittleEndian
	var l LongFilenameEntry
	l.Sequence = b[0]
	for i := range l.First {
		l.First[i] = le.Uint16(b[1+2*i:])
	}
	l.Attribute = b[11]
	l.EntryType = b[12]
	l.Checksum = b[13]
	for i := range l.Second {
		l.Second[i] = le.Uint16(b[14+2*i:])
	}
	l.ClusterLow = le.Uint16(b[26:28])
	for i := range l.Third {
		l.Third[i] = le.Uint16(b[28+2*i:])
	}
	return l
}
