package fatrecov

// Geometry contains the layout values derived from the BIOS Parameter Block.
type Geometry struct {
	BytesPerSector    uint32
	SectorsPerCluster uint32
	// DataStartSector is the first sector of cluster 2.
	DataStartSector uint32
	ClusterCount    uint32
	ClusterSize     int64
}

// NewGeometry computes the data region layout of a FAT32 volume.
// The boot sector is expected to be validated already.
func NewGeometry(bs *BootSector) Geometry {
	g := Geometry{
		BytesPerSector:    uint32(bs.BytesPerSector),
		SectorsPerCluster: uint32(bs.SectorsPerCluster),
		DataStartSector:   uint32(bs.ReservedSectorCount) + uint32(bs.NumFATs)*bs.FATSize32,
	}
	g.ClusterSize = int64(g.BytesPerSector) * int64(g.SectorsPerCluster)

	if g.SectorsPerCluster != 0 && bs.TotalSectors32 > g.DataStartSector {
		g.ClusterCount = (bs.TotalSectors32 - g.DataStartSector) / g.SectorsPerCluster
	}

	return g
}

// DataStart returns the byte offset of the data region.
func (g Geometry) DataStart() int64 {
	return int64(g.DataStartSector) * int64(g.BytesPerSector)
}

// ClusterOffset returns the byte offset of the given cluster. Only clusters >= 2 exist.
func (g Geometry) ClusterOffset(cluster uint32) int64 {
	return g.DataStart() + int64(cluster-2)*g.ClusterSize
}

// ValidCluster reports whether cluster lies in [2, ClusterCount+1].
func (g Geometry) ValidCluster(cluster uint32) bool {
	return cluster >= 2 && uint64(cluster) <= uint64(g.ClusterCount)+1
}
