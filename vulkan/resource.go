package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// Resource owns exactly one native Vulkan handle of kind K. The zero value
// holds the null handle.
type Resource[K rhi.Kind, T comparable] struct {
	res T
}

func wrap[K rhi.Kind, T comparable](res T) *Resource[K, T] {
	return &Resource[K, T]{res: res}
}

func (r *Resource[K, T]) Kind() K {
	var k K
	return k
}

func (r *Resource[K, T]) Resource() T {
	if r == nil {
		var zero T
		return zero
	}
	return r.res
}

func (r *Resource[K, T]) SetResource(res T) {
	r.res = res
}

func (r *Resource[K, T]) Valid() bool {
	var zero T
	return r != nil && r.res != zero
}

func (r *Resource[K, T]) reset() {
	var zero T
	r.res = zero
}

type (
	Buffer              = Resource[rhi.BufferKind, vk.Buffer]
	Image               = Resource[rhi.ImageKind, vk.Image]
	ImageView           = Resource[rhi.ImageViewKind, vk.ImageView]
	DeviceMemory        = Resource[rhi.DeviceMemoryKind, vk.DeviceMemory]
	Pipeline            = Resource[rhi.PipelineKind, vk.Pipeline]
	PipelineLayout      = Resource[rhi.PipelineLayoutKind, vk.PipelineLayout]
	RenderPass          = Resource[rhi.RenderPassKind, vk.RenderPass]
	Framebuffer         = Resource[rhi.FramebufferKind, vk.Framebuffer]
	Shader              = Resource[rhi.ShaderKind, vk.ShaderModule]
	CommandBuffer       = Resource[rhi.CommandBufferKind, vk.CommandBuffer]
	DescriptorSet       = Resource[rhi.DescriptorSetKind, vk.DescriptorSet]
	DescriptorSetLayout = Resource[rhi.DescriptorSetLayoutKind, vk.DescriptorSetLayout]
	Sampler             = Resource[rhi.SamplerKind, vk.Sampler]
)

// native unwraps h. A nil handle or one created by another backend yields
// the zero native handle.
func native[T comparable, K rhi.Kind](h rhi.Handle[K]) T {
	r, ok := h.(*Resource[K, T])
	if !ok || r == nil {
		var zero T
		return zero
	}
	return r.res
}

// unwrap returns the native handle of h and fails with rhi.ErrForeignHandle
// if h does not hold a live native handle of this backend.
func unwrap[T comparable, K rhi.Kind](h rhi.Handle[K]) (T, error) {
	res := native[T](h)
	var zero T
	if res == zero {
		return zero, errorsForeign(h)
	}
	return res, nil
}

func natives[T comparable, K rhi.Kind](hs []rhi.Handle[K]) []T {
	out := make([]T, len(hs))
	for i, h := range hs {
		out[i] = native[T](h)
	}
	return out
}

func wrapAll[K rhi.Kind, T comparable](res []T) []rhi.Handle[K] {
	out := make([]rhi.Handle[K], len(res))
	for i := range res {
		out[i] = wrap[K](res[i])
	}
	return out
}
