package plantuml

import (
	"time"

	"github.com/pcleckler/UmlConversion/pkg/typegraph"
)

// AllTypesLabel labels the document holding every type.
const AllTypesLabel = "All Exported Types"

// AllTypesFileLabel is the file name part of the all-types document.
const AllTypesFileLabel = "All"

// PlanOptions carries the settings shared by every planned document.
type PlanOptions struct {
	Module          string
	MaxTypesPerPage int
	GeneratedAt     time.Time
}

// Planned is a document with its file name part.
type Planned struct {
	Document
	FileLabel string
	Group     *typegraph.Group
}

// Plan lists the documents for a partition: the all-types document first,
// then one per group, the unconnected bucket last, when the partition has
// more than one group.
func Plan(part typegraph.Result, opts PlanOptions) []Planned {
	base := Document{
		Module:          opts.Module,
		MaxTypesPerPage: opts.MaxTypesPerPage,
		GeneratedAt:     opts.GeneratedAt,
	}

	all := base
	all.Label = AllTypesLabel
	docs := []Planned{{Document: all, FileLabel: AllTypesFileLabel}}

	groups := part.All()
	if len(groups) <= 1 {
		return docs
	}
	for i := range groups {
		g := groups[i]
		d := base
		d.Label = g.Label
		d.Select = g.Contains
		docs = append(docs, Planned{Document: d, FileLabel: g.FileLabel(), Group: &g})
	}
	return docs
}

// FileName returns "{base}.{FileLabel}.uml".
func (p Planned) FileName(base string) string {
	return base + "." + p.FileLabel + ".uml"
}
