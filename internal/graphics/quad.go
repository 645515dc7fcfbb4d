package graphics

import "backdrop/internal/gpu"

// QuadMesh returns a 2x2 plane at z=0 covering clip space, two triangles
// wound counter-clockwise.
func QuadMesh() gpu.Mesh {
	return gpu.Mesh{
		Vertices: []float32{
			-1, -1, 0,
			1, -1, 0,
			1, 1, 0,
			-1, 1, 0,
		},
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
		},
	}
}
