package shader

import "github.com/cogentcore/webgpu/wgpu"

// UniformEntry describes a uniform buffer binding.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stages that read the buffer
//   - size: the minimum binding size in bytes, also used to allocate the buffer
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func UniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = size
	return entry
}

// StorageEntry describes a read-only storage buffer binding.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stages that read the buffer
//   - size: the minimum binding size in bytes
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func StorageEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	entry.Buffer.MinBindingSize = size
	return entry
}

// TextureEntry describes a sampled texture binding.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stages that sample the texture
//   - sampleType: wgpu.TextureSampleTypeFloat for color, wgpu.TextureSampleTypeDepth for depth
//   - dimension: the view dimension the shader declares
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func TextureEntry(binding uint32, visibility wgpu.ShaderStage, sampleType wgpu.TextureSampleType, dimension wgpu.TextureViewDimension) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Texture.SampleType = sampleType
	entry.Texture.ViewDimension = dimension
	return entry
}

// SamplerEntry describes a sampler binding.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stages that use the sampler
//   - samplerType: wgpu.SamplerBindingTypeFiltering or wgpu.SamplerBindingTypeComparison
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func SamplerEntry(binding uint32, visibility wgpu.ShaderStage, samplerType wgpu.SamplerBindingType) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Sampler.Type = samplerType
	return entry
}
