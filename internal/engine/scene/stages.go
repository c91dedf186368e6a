package scene

import (
	"io/fs"

	"github.com/Faultbox/nimbus/internal/engine/scene/shaders"
	"github.com/Faultbox/nimbus/internal/engine/shader"
)

// Names the pipeline binds by. These are part of the contract with the
// GLSL sources and must not change independently of them.
const (
	uProjection  = "projection"
	uView        = "view"
	uEyePosition = "eyePosition"
	uSunPosition = "sunPosition"
	uSunColor    = "sunColor"

	uDepthIm      = "depthIm"
	uCloudIm      = "cloudIm"
	uCloudDepthIm = "cloudDepthIm"
	uTime         = "time"
	uInvVP        = "invVP"

	uFrontTexture = "frontTexture"
	uBackTexture  = "backTexture"
	uFrontDepth   = "frontDepth"
	uBackDepth    = "backDepth"

	aPosition = "position"
	aNormal   = "normal"
	aColor    = "color"
)

// LandscapeStage is the opaque terrain program.
var LandscapeStage = shader.StageSpec{
	Name:     "landscape",
	Vertex:   "landscape.vert",
	Fragment: "landscape.frag",
	Uniforms: []string{uProjection, uView, uEyePosition, uSunPosition, uSunColor},
	Attribs:  []string{aPosition, aNormal, aColor},
}

// CloudsStage is the volumetric compute program.
var CloudsStage = shader.StageSpec{
	Name:     "clouds",
	Compute:  "clouds.comp",
	Uniforms: []string{uDepthIm, uCloudIm, uCloudDepthIm, uEyePosition, uSunPosition, uSunColor, uTime, uInvVP},
}

// BlendStage is the compositing program.
var BlendStage = shader.StageSpec{
	Name:     "blend",
	Vertex:   "blend.vert",
	Fragment: "blend.frag",
	Uniforms: []string{uFrontTexture, uBackTexture, uFrontDepth, uBackDepth},
	Attribs:  []string{aPosition},
}

// EmbeddedShaders returns the sources compiled into the binary.
func EmbeddedShaders() fs.FS {
	return shaders.FS
}
