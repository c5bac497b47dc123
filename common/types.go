// package common contains plain data types and math helpers shared across the engine.
package common

import "github.com/cogentcore/webgpu/wgpu"

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero-valued fields fall back to the backend defaults.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for coordinates outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
	// Nearest forces nearest filtering for magnification and minification, overriding MagFilter and MinFilter.
	Nearest bool
}

// RenderTargetStagingData describes a texture that will be rendered into and later sampled.
type RenderTargetStagingData struct {
	// Label is used for the texture and every view created from it.
	Label string
	// Width and Height are the size of each layer in texels.
	Width, Height uint32
	// Layers is the array layer count. Zero is treated as one.
	Layers uint32
	// Array forces a 2DArray sampling view even for a single layer.
	Array bool
	// Format is the texel format of the target.
	Format wgpu.TextureFormat
	// SampleCount is the MSAA sample count. Zero is treated as one.
	SampleCount uint32
	// Sampled adds TextureBinding usage so the target can be read by a later pass.
	Sampled bool
}

// RenderTarget is a GPU texture together with the views passes bind to it.
type RenderTarget struct {
	// Texture is the underlying texture.
	Texture *wgpu.Texture
	// View covers every layer. Array targets get a 2DArray view, others a 2D view.
	View *wgpu.TextureView
	// LayerViews holds one 2D view per array layer, suitable as a render attachment.
	LayerViews []*wgpu.TextureView
	// Width, Height and Layers mirror the staging data the target was created from.
	Width, Height, Layers uint32
	// Format is the texel format of the target.
	Format wgpu.TextureFormat
	// Usage is the usage the texture was created with.
	Usage wgpu.TextureUsage
}

// Release frees the views and the texture.
func (t *RenderTarget) Release() {
	for i, v := range t.LayerViews {
		if v != nil {
			v.Release()
			t.LayerViews[i] = nil
		}
	}
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}
