package shader

import (
	"strings"
	"testing"
)

// TestProgramSourcesContainUniforms verifies every stage declares the shared uniforms
func TestProgramSourcesContainUniforms(t *testing.T) {
	p := Backdrop()
	tests := []struct {
		name     string
		source   string
		required []string
	}{
		{"vertex", p.Vertex, []string{"#version 410 core", "gl_Position = vec4(position, 1.0)"}},
		{"fragment", p.Fragment, []string{"u_time", "u_mouse", "u_resolution", "u_aspect", "fbm", "0.9375"}},
		{"wgsl", p.WGSL, []string{"@vertex", "@fragment", p.VertexEntry, p.FragmentEntry, "var<uniform>", "0.9375"}},
		{"kage", string(p.Kage), []string{"//kage:unit pixels", "var Time float", "var Mouse vec2", "func Fragment("}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.source) < 100 {
				t.Fatalf("%s source suspiciously short: %d bytes", tt.name, len(tt.source))
			}
			for _, want := range tt.required {
				if !strings.Contains(tt.source, want) {
					t.Errorf("%s source missing %q", tt.name, want)
				}
			}
		})
	}
}

// TestProgramUniformOrder verifies the GLSL upload order
func TestProgramUniformOrder(t *testing.T) {
	want := []string{"u_time", "u_mouse", "u_resolution", "u_aspect"}
	got := Backdrop().Uniforms
	if len(got) != len(want) {
		t.Fatalf("got %d uniforms, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniform %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestValidateWGSL verifies the WGSL module compiles
func TestValidateWGSL(t *testing.T) {
	if err := Backdrop().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

// TestValidateRejectsBrokenWGSL verifies compile errors surface
func TestValidateRejectsBrokenWGSL(t *testing.T) {
	p := Backdrop()
	p.WGSL = "fn broken( -> {"
	if err := p.Validate(); err == nil {
		t.Error("Validate() accepted malformed WGSL")
	}

	p.WGSL = ""
	if err := p.Validate(); err == nil {
		t.Error("Validate() accepted empty WGSL")
	}
}
