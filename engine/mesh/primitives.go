package mesh

// Names of the built-in primitives.
const (
	CubeName  = "cube"
	PlaneName = "plane"
)

// cubeFaces lists each face normal with two in-plane axes chosen so u × v = normal,
// which keeps every face wound counter-clockwise seen from outside.
var cubeFaces = [6]struct{ n, u, v [3]float32 }{
	{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

// NewCube returns a unit cube centred on the origin with per-face normals (24 vertices, 36 indices).
//
// Returns:
//   - Mesh: the cube mesh named CubeName
func NewCube() Mesh {
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range corners {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = 0.5 * (f.n[k] + c[0]*f.u[k] + c[1]*f.v[k])
			}
			vertices = append(vertices, GPUVertex{Position: p, Normal: f.n})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewMesh(WithName(CubeName), WithVertices(vertices), WithIndices(indices))
}

// NewPlane returns a square in the XZ plane centred on the origin, facing +Y.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - Mesh: the plane mesh named PlaneName
func NewPlane(size float32) Mesh {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []GPUVertex{
		{Position: [3]float32{-h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, -h}, Normal: up},
		{Position: [3]float32{-h, 0, -h}, Normal: up},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return NewMesh(WithName(PlaneName), WithVertices(vertices), WithIndices(indices))
}
