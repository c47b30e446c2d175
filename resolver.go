package fatrecov

import (
	log "github.com/sirupsen/logrus"
)

// Resolve joins tail-missing and head-missing fragments of ctx and extracts the
// resulting groups. It has to run after every cluster was scanned.
//
// Fragments are matched only by the checksum of the short name, as the physical
// position says nothing once the allocation chain is gone. With an 8 bit key two
// unrelated fragments may match; the first candidate in discovery order wins.
//
// Head-missing fragments consisting of a lone short entry which were never joined
// are extracted as files without a long name.
func (s *Scanner) Resolve(ctx *ScanContext) {
	consumed := make([]bool, len(ctx.heads))

	for _, tail := range ctx.tails {
		checksum := tail.Checksum()

		for i := range ctx.heads {
			if consumed[i] {
				continue
			}
			head := &ctx.heads[i]
			if head.Checksum() != checksum {
				continue
			}

			group := make(EntryGroup, 0, len(tail.Slots)+len(head.Slots))
			group = append(group, tail.Slots...)
			group = append(group, head.Slots...)

			log.Debugf("joined fragment of cluster %d with fragment of cluster %d (checksum 0x%02x)", tail.Cluster, head.Cluster, checksum)
			consumed[i] = true
			s.stats.Resolved++
			s.extract(group)
			break
		}
	}

	for i := range ctx.heads {
		if consumed[i] || !ctx.heads[i].isLoneShort() {
			continue
		}
		s.extract(EntryGroup(ctx.heads[i].Slots))
	}

	ctx.heads = nil
	ctx.tails = nil
}
