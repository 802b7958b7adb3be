package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/blur.fs
var blurFS string

// BlurShader applies a gaussian blur while drawing a texture.
type BlurShader struct {
	shader        rl.Shader
	resolutionLoc int32
	sigmaLoc      int32
	initialized   bool
}

// NewBlurShader creates an unloaded blur shader.
func NewBlurShader() *BlurShader {
	return &BlurShader{}
}

// Init compiles the shader (must be called after raylib window is created).
func (b *BlurShader) Init() {
	if b.initialized {
		return
	}
	b.shader = rl.LoadShaderFromMemory("", blurFS)
	b.resolutionLoc = rl.GetShaderLocation(b.shader, "resolution")
	b.sigmaLoc = rl.GetShaderLocation(b.shader, "sigma")
	b.initialized = true
}

// Begin starts blurred drawing of a w×h texture with the given radius.
func (b *BlurShader) Begin(radius float32, w, h int) {
	if !b.initialized {
		b.Init()
	}
	rl.SetShaderValue(b.shader, b.resolutionLoc, []float32{float32(w), float32(h)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(b.shader, b.sigmaLoc, []float32{radius}, rl.ShaderUniformFloat)
	rl.BeginShaderMode(b.shader)
}

// End stops blurred drawing.
func (b *BlurShader) End() {
	rl.EndShaderMode()
}

// Unload frees resources.
func (b *BlurShader) Unload() {
	if b.initialized {
		rl.UnloadShader(b.shader)
		b.initialized = false
	}
}
