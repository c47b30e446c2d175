package fatrecov

import (
	log "github.com/sirupsen/logrus"
)

// FragmentKind tells which end of an entry group is missing.
type FragmentKind uint8

const (
	// HeadMissing fragments are found at the start of a cluster. Their final
	// fragment lives in some other, possibly non-adjacent cluster.
	HeadMissing FragmentKind = iota
	// TailMissing fragments reach the end of a cluster without a short entry.
	TailMissing
)

// EntryGroup is a run of long name fragments in physical order, highest sequence
// first, terminated by exactly one short entry.
type EntryGroup []Slot

// Short returns the terminating short entry.
func (g EntryGroup) Short() (*Slot, bool) {
	if len(g) == 0 {
		return nil, false
	}
	last := &g[len(g)-1]
	return last, last.Kind == SlotShort
}

// Fragments returns the long name fragments in front of the short entry.
func (g EntryGroup) Fragments() []Slot {
	if len(g) == 0 {
		return nil
	}
	return g[:len(g)-1]
}

// PendingFragment is an incomplete entry group cut by a cluster boundary.
type PendingFragment struct {
	Kind    FragmentKind
	Cluster uint32
	Slots   []Slot
}

// Checksum is the join key of the fragment. All slots of a group share it.
func (p *PendingFragment) Checksum() byte {
	return p.Slots[0].Checksum()
}

// isLoneShort reports whether the fragment is a single short entry found at a cluster start.
func (p *PendingFragment) isLoneShort() bool {
	return len(p.Slots) == 1 && p.Slots[0].Kind == SlotShort
}

// ScanContext collects the boundary fragments of one scan until they get resolved.
type ScanContext struct {
	heads []PendingFragment
	tails []PendingFragment
}

// Heads returns the head-missing fragments in discovery order.
func (c *ScanContext) Heads() []PendingFragment {
	return c.heads
}

// Tails returns the tail-missing fragments in discovery order.
func (c *ScanContext) Tails() []PendingFragment {
	return c.tails
}

// Stats summarizes a scan.
type Stats struct {
	Clusters          uint32
	DirectoryClusters uint32
	Groups            int
	Heads             int
	Tails             int
	Resolved          int
	Recovered         int
	Dropped           int
}

// Options tune the heuristics of a Scanner.
type Options struct {
	// MaxFileSize is the plausibility cap for the size of a short entry.
	// 0 selects DefaultMaxFileSize.
	MaxFileSize uint32
}

// Scanner walks every cluster of a volume looking for directory entries of deleted files.
type Scanner struct {
	volume *Volume
	check  validator
	sink   Sink
	stats  Stats
}

// NewScanner creates a scanner reporting every recovered file to sink.
func NewScanner(volume *Volume, sink Sink, options Options) *Scanner {
	if options.MaxFileSize == 0 {
		options.MaxFileSize = DefaultMaxFileSize
	}

	return &Scanner{
		volume: volume,
		check: validator{
			geometry:    volume.Geometry(),
			maxFileSize: options.MaxFileSize,
		},
		sink: sink,
	}
}

// Run scans all clusters in ascending order and afterwards joins the fragments
// which were split by cluster boundaries.
func (s *Scanner) Run() Stats {
	s.stats = Stats{}
	ctx := &ScanContext{}
	geometry := s.volume.Geometry()

	for cluster := uint32(2); uint64(cluster) < uint64(geometry.ClusterCount)+2; cluster++ {
		s.stats.Clusters++

		data := s.volume.Cluster(cluster)
		if data == nil {
			log.Debugf("cluster %d lies outside of the image, stopping", cluster)
			break
		}
		if !s.check.isDirectoryLike(data) {
			continue
		}

		s.stats.DirectoryClusters++
		s.ScanCluster(ctx, cluster)
	}

	s.stats.Heads = len(ctx.heads)
	s.stats.Tails = len(ctx.tails)
	log.Debugf("scan finished: %d head-missing and %d tail-missing fragments pending", s.stats.Heads, s.stats.Tails)

	s.Resolve(ctx)
	return s.stats
}

// ScanCluster scans a single cluster. Complete groups are extracted right away,
// boundary fragments are added to ctx.
func (s *Scanner) ScanCluster(ctx *ScanContext, cluster uint32) {
	data := s.volume.Cluster(cluster)
	if data == nil {
		return
	}
	base := s.volume.Geometry().ClusterOffset(cluster)
	slots := len(data) / slotSize
	slotAt := func(i int) []byte {
		return data[i*slotSize : (i+1)*slotSize]
	}

	next := 0
	if first := decodeLongFilenameEntry(slotAt(0)); isLong(&first) {
		if !first.IsLast() {
			count := first.Index() + 1
			if count > slots {
				count = slots
			}

			fragment := PendingFragment{Kind: HeadMissing, Cluster: cluster}
			for i := 0; i < count; i++ {
				fragment.Slots = append(fragment.Slots, s.decodeRunSlot(slotAt(i), base+int64(i*slotSize), i == count-1))
			}
			ctx.heads = append(ctx.heads, fragment)
			next = count
			log.Tracef("cluster %d: head-missing fragment of %d slots", cluster, count)
		}
	} else if short := decodeEntryHeader(slotAt(0)); s.check.isShort(&short) {
		ctx.heads = append(ctx.heads, PendingFragment{
			Kind:    HeadMissing,
			Cluster: cluster,
			Slots:   []Slot{{Offset: base, Kind: SlotShort, Short: short}},
		})
		next = 1
		log.Tracef("cluster %d: lone short entry at cluster start", cluster)
	}

	var run []Slot
sweep:
	for i := next; i < slots; i++ {
		slot := s.check.classify(slotAt(i), base+int64(i*slotSize))
		switch slot.Kind {
		case SlotShort:
			s.extract(append(run, slot))
			run = nil
		case SlotLong:
			run = append(run, slot)
		default:
			log.Tracef("cluster %d: sweep stopped at slot %d", cluster, i)
			break sweep
		}
	}

	if len(run) > 0 {
		ctx.tails = append(ctx.tails, PendingFragment{Kind: TailMissing, Cluster: cluster, Slots: run})
		log.Tracef("cluster %d: tail-missing fragment of %d slots", cluster, len(run))
	}
}

// decodeRunSlot decodes a slot of a head-missing run. The run is trusted to consist
// of long fragments terminated by a short entry; the last slot is still validated.
func (s *Scanner) decodeRunSlot(b []byte, offset int64, last bool) Slot {
	if last {
		return s.check.classify(b, offset)
	}
	return Slot{Offset: offset, Kind: SlotLong, Long: decodeLongFilenameEntry(b)}
}

// extract runs the extractor for a complete group and hands the result to the sink.
// A failing sink only drops this one file.
func (s *Scanner) extract(group EntryGroup) {
	s.stats.Groups++

	file, ok := s.Extract(group)
	if !ok {
		return
	}

	if err := s.sink.Emit(file); err != nil {
		s.stats.Dropped++
		log.Warnf("dropping %q (cluster %d): %v", file.Name, file.Cluster, err)
		return
	}
	s.stats.Recovered++
}
