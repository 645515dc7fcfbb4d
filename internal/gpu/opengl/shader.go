package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// program is a linked GL program with a uniform location cache.
type program struct {
	id        uint32
	locations map[string]int32
}

func newProgram(vertexSrc, fragmentSrc string, names []string) (*program, error) {
	id, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	p := &program{id: id, locations: make(map[string]int32, len(names))}
	for _, name := range names {
		// -1 is kept: the driver may strip a uniform the shader never reads.
		p.locations[name] = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	return p, nil
}

func (p *program) location(name string) int32 {
	loc, ok := p.locations[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.locations[name] = loc
	}
	return loc
}

func (p *program) setFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

func (p *program) setVec2(name string, x, y float32) {
	gl.Uniform2f(p.location(name), x, y)
}

func (p *program) delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	id := gl.CreateProgram()
	gl.AttachShader(id, vertexShader)
	gl.AttachShader(id, fragmentShader)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteProgram(id)

		return 0, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(id, vertexShader)
	gl.DetachShader(id, fragmentShader)
	return id, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
