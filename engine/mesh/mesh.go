// Package mesh builds the procedural meshes the demo scene is made from.
package mesh

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// Uploader creates GPU vertex and index buffers for a mesh provider.
// renderer.Renderer satisfies it.
type Uploader interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
}

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	provider       bind_group_provider.BindGroupProvider
	boundingRadius float32
}

// Mesh is an indexed triangle list with a GPU provider holding its vertex and index buffers.
type Mesh interface {
	// Name retrieves the mesh identifier. Scene nodes refer to meshes by this key.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices returns the CPU-side vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the CPU-side triangle index list.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData returns the vertices packed for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex bytes
	VertexData() []byte

	// IndexData returns the indices packed as little-endian uint32.
	//
	// Returns:
	//   - []byte: the index bytes
	IndexData() []byte

	// IndexCount returns the number of indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Provider retrieves the BindGroupProvider holding the GPU buffers. Nil until Upload succeeds.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	Provider() bind_group_provider.BindGroupProvider

	// Upload creates the GPU vertex and index buffers.
	//
	// Parameters:
	//   - u: the uploader, usually the renderer
	//
	// Returns:
	//   - error: an error if buffer creation fails
	Upload(u Uploader) error

	// Release frees the GPU buffers.
	Release()
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: a new instance of Mesh configured with the provided options
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{}
	for _, opt := range options {
		opt(m)
	}
	m.boundingRadius = boundingRadius(m.vertices)
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUVertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) VertexData() []byte {
	buf := make([]byte, 0, len(m.vertices)*24)
	for i := range m.vertices {
		buf = append(buf, m.vertices[i].Marshal()...)
	}
	return buf
}

func (m *mesh) IndexData() []byte {
	buf := make([]byte, len(m.indices)*4)
	for i, idx := range m.indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) Provider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *mesh) Upload(u Uploader) error {
	provider := bind_group_provider.NewBindGroupProvider(m.name)
	if err := u.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		provider.Release()
		return err
	}
	m.provider = provider
	return nil
}

func (m *mesh) Release() {
	if m.provider != nil {
		m.provider.Release()
		m.provider = nil
	}
}

func boundingRadius(vertices []GPUVertex) float32 {
	var r float32
	for _, v := range vertices {
		if l := (mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}).Len(); l > r {
			r = l
		}
	}
	return r
}
