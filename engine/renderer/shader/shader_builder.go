package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point name.
//
// Parameters:
//   - name: the WGSL function name of the entry point
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithBindGroupLayout declares the layout of one bind group used by the shader.
//
// Parameters:
//   - group: the @group index
//   - entries: the layout entries, see UniformEntry, StorageEntry, TextureEntry and SamplerEntry
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout
func WithBindGroupLayout(group int, entries ...wgpu.BindGroupLayoutEntry) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   s.key,
			Entries: entries,
		}
	}
}

// WithVertexLayout appends a vertex buffer layout; the first call describes slot 0.
//
// Parameters:
//   - layout: the vertex buffer layout
//
// Returns:
//   - ShaderBuilderOption: a function that appends the layout
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}
