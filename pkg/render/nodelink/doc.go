// Package nodelink renders the relationship graph of a diagram run as a
// single node-link overview.
//
// # Overview
//
// The class diagram documents show members and relationships one group at a
// time. The overview shows only type names and the typed edges between them,
// with each reference group drawn as a Graphviz cluster. It is meant for
// getting a feel for a large input before opening the per-group documents.
//
// # Usage
//
//	dot := nodelink.ToDOT(ctx.Graph, part, nodelink.Options{EdgeLabels: true})
//	svg, err := nodelink.RenderSVG(context.Background(), dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Edge Styles
//
// Edge styles follow the class diagram arrows: composition ends in a filled
// diamond, inheritance in a hollow triangle, and interface and extension
// edges are dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
