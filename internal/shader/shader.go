package shader

import (
	_ "embed"
	"fmt"

	"backdrop/internal/uniforms"

	"github.com/gogpu/naga"
)

//go:embed assets/backdrop.vert
var vertexSource string

//go:embed assets/backdrop.frag
var fragmentSource string

//go:embed assets/backdrop.wgsl
var wgslSource string

//go:embed assets/backdrop.kage
var kageSource []byte

// Program carries one effect in every shading language a backend may ask for.
type Program struct {
	Name string

	// GLSL 410 core stages.
	Vertex   string
	Fragment string

	// WGSL module with vs_main and fs_main entry points and the uniform
	// block at group 0, binding 0.
	WGSL           string
	VertexEntry    string
	FragmentEntry  string
	UniformBinding uint32

	// Kage fragment program; its uniforms are Time, Mouse, Resolution, Aspect.
	Kage []byte

	// Uniforms lists the GLSL uniform names in upload order.
	Uniforms []string
}

// Backdrop returns the procedural background program.
func Backdrop() Program {
	return Program{
		Name:          "backdrop",
		Vertex:        vertexSource,
		Fragment:      fragmentSource,
		WGSL:          wgslSource,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		Kage:          kageSource,
		Uniforms: []string{
			uniforms.NameTime,
			uniforms.NameMouse,
			uniforms.NameResolution,
			uniforms.NameAspect,
		},
	}
}

// Validate compiles the WGSL module to SPIR-V and reports the first error.
func (p Program) Validate() error {
	if p.WGSL == "" {
		return fmt.Errorf("shader %s: empty WGSL source", p.Name)
	}
	if _, err := naga.Compile(p.WGSL); err != nil {
		return fmt.Errorf("shader %s: %w", p.Name, err)
	}
	return nil
}

// KageUniforms maps a uniform snapshot onto the Kage variable names.
func KageUniforms(v uniforms.Values) map[string]any {
	return map[string]any{
		"Time":       v.Time,
		"Mouse":      []float32{v.Pointer.X(), v.Pointer.Y()},
		"Resolution": []float32{v.Resolution.X(), v.Resolution.Y()},
		"Aspect":     v.Aspect,
	}
}
