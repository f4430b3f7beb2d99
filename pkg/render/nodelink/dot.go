package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pcleckler/UmlConversion/pkg/render"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
)

// Options configures overview rendering.
type Options struct {
	// EdgeLabels writes the relationship label on every edge.
	EdgeLabels bool

	// Title is written as the graph label when set.
	Title string
}

// ToDOT converts the relationship graph to Graphviz DOT, one cluster per
// group of part. The result can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
//
// Types of the unconnected bucket are drawn with dashed outlines and a grey
// fill to set them apart from grouped types.
func ToDOT(g *typegraph.Graph, part typegraph.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}

	for i, grp := range part.All() {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", grp.Label)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		buf.WriteString("    color=grey60;\n")
		unconnected := grp.Label == typegraph.UnconnectedLabel
		for _, m := range grp.Members {
			fmt.Fprintf(&buf, "    %q [%s];\n", m, strings.Join(nodeAttrs(m, unconnected), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !g.Known(e.From) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e.Kind, opts.EdgeLabels), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(name string, unconnected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", name)}
	if unconnected {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// edgeAttrs mirrors the class diagram arrows: a filled diamond for
// composition, a hollow triangle for inheritance, dashed lines for
// interface and extension edges.
func edgeAttrs(k typegraph.Kind, labels bool) []string {
	var attrs []string
	switch k {
	case typegraph.ComposedOf:
		attrs = append(attrs, "arrowhead=diamond")
	case typegraph.Encloses:
		attrs = append(attrs, "arrowhead=none", "arrowtail=diamond", "dir=both")
	case typegraph.Implements, typegraph.Extends:
		attrs = append(attrs, "style=dashed")
	case typegraph.Inherits:
		attrs = append(attrs, "arrowhead=empty")
	}
	if labels {
		attrs = append(attrs, fmt.Sprintf("label=%q", k.Label()), "fontsize=10")
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "arrowhead=normal")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
