package uml

import (
	"strings"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
)

// Segment is a named section of a type's block.
type Segment int

const (
	SegmentSummary Segment = iota
	SegmentEvents
	SegmentFields
	SegmentProperties
	SegmentConstructors
	SegmentMethods

	numSegments
)

var segmentInfo = [numSegments]struct {
	title     string
	separator string
}{
	SegmentSummary:      {"Summary", ".."},
	SegmentEvents:       {"Events", "--"},
	SegmentFields:       {"Fields", "--"},
	SegmentProperties:   {"Properties", "--"},
	SegmentConstructors: {"Constructors", "--"},
	SegmentMethods:      {"Methods", "--"},
}

// Segments returns every segment in rendering order.
func Segments() []Segment {
	return []Segment{
		SegmentSummary,
		SegmentEvents,
		SegmentFields,
		SegmentProperties,
		SegmentConstructors,
		SegmentMethods,
	}
}

func (s Segment) String() string {
	if s < 0 || s >= numSegments {
		return ""
	}
	return segmentInfo[s].title
}

// Separator returns the token written after the segment when a later
// segment of the same block is populated.
func (s Segment) Separator() string {
	if s < 0 || s >= numSegments {
		return "--"
	}
	return segmentInfo[s].separator
}

// Block is the rendered description of one type.
type Block struct {
	Type   descriptor.TypeDescriptor
	Name   string
	Header string

	lines [numSegments][]string
}

// Kind returns the descriptor kind of the block's type.
func (b *Block) Kind() descriptor.Kind { return b.Type.Kind() }

// Lines returns the lines of segment s.
func (b *Block) Lines(s Segment) []string {
	if s < 0 || s >= numSegments {
		return nil
	}
	return b.lines[s]
}

// Populated reports whether s holds at least one non-blank line.
func (b *Block) Populated(s Segment) bool {
	for _, l := range b.Lines(s) {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

// PopulatedAfter reports whether any segment after s is populated.
func (b *Block) PopulatedAfter(s Segment) bool {
	for next := s + 1; next < numSegments; next++ {
		if b.Populated(next) {
			return true
		}
	}
	return false
}

func (b *Block) add(s Segment, line string) {
	b.lines[s] = append(b.lines[s], line)
}
