// Package render holds output conversions shared by the renderers.
//
// The class diagram text itself is produced by the [plantuml] subpackage;
// the relationship overview by [nodelink]. [ToPDF] and [ToPNG] convert any
// SVG to other formats using the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [plantuml]: github.com/pcleckler/UmlConversion/pkg/render/plantuml
// [nodelink]: github.com/pcleckler/UmlConversion/pkg/render/nodelink
package render
