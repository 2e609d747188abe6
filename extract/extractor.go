// Package extract drives an LZP decoding session over the ordered zone
// schedule declared in the artifact, slicing the decompressed stream into
// per-group domain text.
package extract

import (
	"fmt"

	"pacdec/codec"
	"pacdec/lzp"
)

// minFetch is the smallest chunk requested from the decoder per refill.
// Groups are usually far smaller than this; over-fetching keeps the leftover
// buffer warm across many schedule entries.
const minFetch = 8192

// LengthGroup declares one (domain length, required character count) slot
// within a zone.
type LengthGroup struct {
	Length int
	Count  int
}

// ZoneEntry declares the ordered length groups of one TLD zone.
type ZoneEntry struct {
	Zone   string
	Groups []LengthGroup
}

// Schedule is the ordered traversal plan parsed from the artifact. Order is
// semantic: decoder predictions depend on everything decoded before, so
// reordering entries changes their output.
type Schedule []ZoneEntry

// Shortfall reports a group for which the streams ran out before the
// required character count was assembled.
type Shortfall struct {
	Zone      string
	Length    int
	Required  int
	Available int
}

func (s *Shortfall) Error() string {
	return fmt.Sprintf("zone %s length %d: need %d chars, got %d",
		s.Zone, s.Length, s.Required, s.Available)
}

// GroupResult is the outcome for one (zone, length) schedule entry: either
// expanded domain text or a Shortfall. Failures are values so that one bad
// group never stops the traversal.
type GroupResult struct {
	Zone     string
	Length   int
	Required int
	Text     string
	Err      error
}

// Extractor owns the cursors into the compressed data and mask streams plus
// the leftover buffer of decoded-but-unclaimed bytes.
type Extractor struct {
	dec      *lzp.Decoder
	data     []byte
	mask     []byte
	leftover []byte
}

// NewExtractor pairs a fresh decoding session with the full compressed data
// stream and the already transport-decoded mask stream.
func NewExtractor(dec *lzp.Decoder, data, mask []byte) *Extractor {
	return &Extractor{dec: dec, data: data, mask: mask}
}

// Run walks the schedule in order and returns one result per length group.
// Non-positive counts are skipped. Groups past the end of the streams come
// back as Shortfall results; everything decoded before the cut is delivered.
func (x *Extractor) Run(schedule Schedule) []GroupResult {
	var results []GroupResult
	for _, zone := range schedule {
		for _, g := range zone.Groups {
			if g.Count <= 0 {
				continue
			}
			results = append(results, x.next(zone.Zone, g))
		}
	}
	return results
}

func (x *Extractor) next(zone string, g LengthGroup) GroupResult {
	if len(x.leftover) < g.Count {
		limit := g.Count
		if limit < minFetch {
			limit = minFetch
		}
		out, dataUsed, maskUsed := x.dec.Decode(x.data, x.mask, limit)
		x.data = x.data[dataUsed:]
		x.mask = x.mask[maskUsed:]
		x.leftover = append(x.leftover, out...)
	}
	if len(x.leftover) < g.Count {
		return GroupResult{
			Zone:     zone,
			Length:   g.Length,
			Required: g.Count,
			Err: &Shortfall{
				Zone:      zone,
				Length:    g.Length,
				Required:  g.Count,
				Available: len(x.leftover),
			},
		}
	}
	raw := string(x.leftover[:g.Count])
	x.leftover = x.leftover[g.Count:]
	return GroupResult{
		Zone:     zone,
		Length:   g.Length,
		Required: g.Count,
		Text:     codec.ExpandPatterns(raw),
	}
}
