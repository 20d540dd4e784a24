package kernel

// Mesh is a triangle mesh for one placed part.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Part     string    `json:"part"`     // satellite/type#id of the source part
	Type     string    `json:"type"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return min, max
	}
	copy(min[:], m.Vertices[:3])
	copy(max[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			v := m.Vertices[i+j]
			if v < min[j] {
				min[j] = v
			}
			if v > max[j] {
				max[j] = v
			}
		}
	}
	return min, max
}

// MeshBuilder accumulates flat-shaded triangles. Corners with the same
// position and normal share one vertex.
type MeshBuilder struct {
	mesh  Mesh
	index map[[6]float32]uint32
}

func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{index: make(map[[6]float32]uint32)}
}

// AddTriangle appends the triangle v with face normal n.
func (b *MeshBuilder) AddTriangle(v [3][3]float32, n [3]float32) {
	for _, p := range v {
		key := [6]float32{p[0], p[1], p[2], n[0], n[1], n[2]}
		i, ok := b.index[key]
		if !ok {
			i = uint32(len(b.mesh.Vertices) / 3)
			b.mesh.Vertices = append(b.mesh.Vertices, p[:]...)
			b.mesh.Normals = append(b.mesh.Normals, n[:]...)
			b.index[key] = i
		}
		b.mesh.Indices = append(b.mesh.Indices, i)
	}
}

// Mesh returns the mesh built so far.
func (b *MeshBuilder) Mesh() *Mesh {
	m := b.mesh
	return &m
}
