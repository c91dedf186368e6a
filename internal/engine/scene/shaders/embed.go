// Package shaders provides the default GLSL sources of the render pipeline.
package shaders

import "embed"

// FS holds landscape.vert, landscape.frag, clouds.comp, blend.vert and
// blend.frag.
//
//go:embed *.vert *.frag *.comp
var FS embed.FS
