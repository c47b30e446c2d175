// Package imagetest builds small FAT32 images in memory. The images only contain
// what the scanner looks at: a boot sector and raw clusters. The allocation tables
// stay empty, just like after the files were deleted.
package imagetest

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

const (
	SlotSize = 32

	bootSignature = 0xAA55
	attrLongName  = 0x0F
	lastLongEntry = 0x40
	lfnPadding    = 0xFFFF
	unitsPerEntry = 13
)

// Layout describes the geometry of an image.
type Layout struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	FATSize           uint32
	Clusters          uint32
}

// DefaultLayout has clusters of a single 512 byte sector, which hold 16 slots.
var DefaultLayout = Layout{
	BytesPerSector:    512,
	SectorsPerCluster: 1,
	ReservedSectors:   32,
	NumFATs:           2,
	FATSize:           1,
	Clusters:          64,
}

// Image is a FAT32 image under construction.
type Image struct {
	layout Layout
	data   []byte
}

// New creates an image with a valid boot sector and zeroed data clusters.
func New(layout Layout) *Image {
	img := &Image{layout: layout}
	img.data = make([]byte, int64(img.TotalSectors())*int64(layout.BytesPerSector))

	b := img.data
	le := binary.LittleEndian
	copy(b[0:], []byte{0xEB, 0x58, 0x90})
	copy(b[3:], "MSWIN4.1")
	le.PutUint16(b[11:], layout.BytesPerSector)
	b[13] = layout.SectorsPerCluster
	le.PutUint16(b[14:], layout.ReservedSectors)
	b[16] = layout.NumFATs
	b[21] = 0xF8
	le.PutUint16(b[24:], 63)
	le.PutUint16(b[26:], 255)
	le.PutUint32(b[32:], img.TotalSectors())
	le.PutUint32(b[36:], layout.FATSize)
	le.PutUint32(b[44:], 2)
	le.PutUint16(b[48:], 1)
	le.PutUint16(b[50:], 6)
	b[64] = 0x80
	b[66] = 0x29
	le.PutUint32(b[67:], 0x1234ABCD)
	copy(b[71:], "NO NAME    ")
	copy(b[82:], "FAT32   ")
	le.PutUint16(b[510:], bootSignature)

	return img
}

// Default creates an image with DefaultLayout.
func Default() *Image {
	return New(DefaultLayout)
}

// TotalSectors returns the sector count stored in the boot sector.
func (img *Image) TotalSectors() uint32 {
	return img.dataStartSector() + img.layout.Clusters*uint32(img.layout.SectorsPerCluster)
}

func (img *Image) dataStartSector() uint32 {
	return uint32(img.layout.ReservedSectors) + uint32(img.layout.NumFATs)*img.layout.FATSize
}

// Bytes returns the image. Later modifications of the image are visible in it.
func (img *Image) Bytes() []byte {
	return img.data
}

// ClusterSize returns the size of a cluster in bytes.
func (img *Image) ClusterSize() int {
	return int(img.layout.BytesPerSector) * int(img.layout.SectorsPerCluster)
}

// SlotsPerCluster returns the number of directory slots in a cluster.
func (img *Image) SlotsPerCluster() int {
	return img.ClusterSize() / SlotSize
}

// ClusterCount returns the number of data clusters.
func (img *Image) ClusterCount() uint32 {
	return img.layout.Clusters
}

// ClusterOffset returns the byte offset of a cluster (>= 2).
func (img *Image) ClusterOffset(cluster uint32) int64 {
	return int64(img.dataStartSector())*int64(img.layout.BytesPerSector) + int64(cluster-2)*int64(img.ClusterSize())
}

// SlotOffset returns the byte offset of slot index of cluster.
func (img *Image) SlotOffset(cluster uint32, index int) int64 {
	return img.ClusterOffset(cluster) + int64(index*SlotSize)
}

// PutSlots writes slots starting at slot index of cluster.
func (img *Image) PutSlots(cluster uint32, index int, slots ...[]byte) {
	offset := img.SlotOffset(cluster, index)
	for _, slot := range slots {
		copy(img.data[offset:offset+SlotSize], slot)
		offset += SlotSize
	}
}

// PutData writes raw data at the start of cluster.
func (img *Image) PutData(cluster uint32, data []byte) {
	copy(img.data[img.ClusterOffset(cluster):], data)
}

// Bitmap returns size bytes starting with the bitmap signature. The byte at
// offset 11 has both high attribute bits set, so the cluster is never mistaken
// for directory data.
func Bitmap(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xAB
	}
	copy(data, "BM")
	if size > 11 {
		data[11] = 0xC0
	}
	return data
}

// ShortName converts "PIC.BMP" into the padded 11 byte form "PIC     BMP".
func ShortName(name string) [11]byte {
	var short [11]byte
	for i := range short {
		short[i] = ' '
	}

	base, ext := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		base, ext = name[:dot], name[dot+1:]
	}
	copy(short[:8], strings.ToUpper(base))
	copy(short[8:], strings.ToUpper(ext))
	return short
}

// Checksum calculates the short name checksum stored in long name fragments.
func Checksum(name [11]byte) byte {
	var sum byte
	for _, b := range name {
		sum = (sum&1)<<7 | sum>>1
		sum += b
	}
	return sum
}

// ShortEntry encodes a short directory entry with a fixed timestamp of
// 2021-03-14 15:09:26.
func ShortEntry(name [11]byte, attr byte, cluster uint32, size uint32) []byte {
	b := make([]byte, SlotSize)
	le := binary.LittleEndian
	copy(b[0:11], name[:])
	b[11] = attr
	le.PutUint16(b[20:], uint16(cluster>>16))
	le.PutUint16(b[22:], ModTimeStamp)
	le.PutUint16(b[24:], ModDateStamp)
	le.PutUint16(b[26:], uint16(cluster))
	le.PutUint32(b[28:], size)
	return b
}

// Encoded write time and date used by ShortEntry.
const (
	ModTimeStamp = 15<<11 | 9<<5 | 13
	ModDateStamp = (2021-1980)<<9 | 3<<5 | 14
)

// LongEntries encodes name as long name fragments in physical order, the fragment
// with the highest sequence number first. The name is terminated by a null unit
// and padded with 0xFFFF if it does not fill the last fragment.
func LongEntries(name string, short [11]byte) [][]byte {
	units := utf16.Encode([]rune(name))
	if len(units)%unitsPerEntry != 0 {
		units = append(units, 0)
		for len(units)%unitsPerEntry != 0 {
			units = append(units, lfnPadding)
		}
	}

	count := len(units) / unitsPerEntry
	checksum := Checksum(short)
	entries := make([][]byte, count)

	for i := 0; i < count; i++ {
		seq := byte(i + 1)
		if i == count-1 {
			seq |= lastLongEntry
		}
		entries[count-1-i] = LongEntry(seq, units[i*unitsPerEntry:(i+1)*unitsPerEntry], checksum)
	}

	return entries
}

// LongEntry encodes a single fragment holding 13 units.
func LongEntry(seq byte, units []uint16, checksum byte) []byte {
	b := make([]byte, SlotSize)
	le := binary.LittleEndian
	b[0] = seq
	b[11] = attrLongName
	b[13] = checksum

	positions := [unitsPerEntry]int{1, 3, 5, 7, 9, 14, 16, 18, 20, 22, 24, 28, 30}
	for i, pos := range positions {
		u := uint16(lfnPadding)
		if i < len(units) {
			u = units[i]
		}
		le.PutUint16(b[pos:], u)
	}
	return b
}

// Group returns the long name fragments of name followed by the short entry.
func Group(name string, short [11]byte, cluster uint32, size uint32) [][]byte {
	return append(LongEntries(name, short), ShortEntry(short, 0x20, cluster, size))
}
