package webgpu

import (
	"fmt"

	"backdrop/internal/gpu"
	"backdrop/internal/shader"
	"backdrop/internal/uniforms"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexLayout matches gpu.Mesh: tightly packed xyz at location 0.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 3 * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
	},
}

type material struct {
	module         *wgpu.ShaderModule
	bindLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline
	uniforms       *wgpu.Buffer
	bindGroup      *wgpu.BindGroup
}

func (m *material) Release() {
	if m.bindGroup != nil {
		m.bindGroup.Release()
		m.bindGroup = nil
	}
	if m.uniforms != nil {
		m.uniforms.Release()
		m.uniforms = nil
	}
	if m.pipeline != nil {
		m.pipeline.Release()
		m.pipeline = nil
	}
	if m.pipelineLayout != nil {
		m.pipelineLayout.Release()
		m.pipelineLayout = nil
	}
	if m.bindLayout != nil {
		m.bindLayout.Release()
		m.bindLayout = nil
	}
	if m.module != nil {
		m.module.Release()
		m.module = nil
	}
}

// NewMaterial validates the WGSL module, then builds the render pipeline
// and the uniform buffer bound at group 0.
func (c *Context) NewMaterial(p shader.Program) (gpu.Material, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("webgpu: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}

	m := &material{}
	if err := c.buildMaterial(m, p); err != nil {
		m.Release()
		return nil, fmt.Errorf("webgpu: shader %s: %w", p.Name, err)
	}
	return m, nil
}

func (c *Context) buildMaterial(m *material, p shader.Program) error {
	var err error
	m.module, err = c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.WGSL,
		},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}

	m.bindLayout, err = c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: p.Name + " uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    p.UniformBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniforms.Std140Size,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}

	m.pipelineLayout, err = c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{m.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	m.pipeline, err = c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.Name + " render pipeline",
		Layout: m.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     m.module,
			EntryPoint: p.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     m.module,
			EntryPoint: p.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    c.format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: c.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}

	m.uniforms, err = c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Name + " uniform buffer",
		Size:  uniforms.Std140Size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}

	m.bindGroup, err = c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.Name + " bind group",
		Layout: m.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: p.UniformBinding,
				Buffer:  m.uniforms,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	return nil
}
