package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// The rhi enums carry Vulkan's numeric values, so the conversions below are
// plain type conversions plus slice and pointer plumbing.

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

func vkExtent(e rhi.Extent2D) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func vkRect(r rhi.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: vkExtent(r.Extent),
	}
}

func vkRects(rs []rhi.Rect2D) []vk.Rect2D {
	out := make([]vk.Rect2D, len(rs))
	for i := range rs {
		out[i] = vkRect(rs[i])
	}
	return out
}

func vkViewports(vs []rhi.Viewport) []vk.Viewport {
	out := make([]vk.Viewport, len(vs))
	for i, v := range vs {
		out[i] = vk.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.MinDepth,
			MaxDepth: v.MaxDepth,
		}
	}
	return out
}

func vkClearValues(values []rhi.ClearValue) []vk.ClearValue {
	out := make([]vk.ClearValue, len(values))
	for i, v := range values {
		if v.DepthStencil {
			out[i] = vk.NewClearDepthStencil(v.Depth, v.Stencil)
			continue
		}
		out[i] = vk.NewClearValue(v.Color[:])
	}
	return out
}

func vkStencilOp(s rhi.StencilOpState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      vk.StencilOp(s.FailOp),
		PassOp:      vk.StencilOp(s.PassOp),
		DepthFailOp: vk.StencilOp(s.DepthFailOp),
		CompareOp:   vk.CompareOp(s.CompareOp),
		CompareMask: s.CompareMask,
		WriteMask:   s.WriteMask,
		Reference:   s.Reference,
	}
}

func vkAttachmentRefs(refs []rhi.AttachmentReference) []vk.AttachmentReference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]vk.AttachmentReference, len(refs))
	for i, r := range refs {
		out[i] = vk.AttachmentReference{
			Attachment: r.Attachment,
			Layout:     vk.ImageLayout(r.Layout),
		}
	}
	return out
}

// sampleCount treats the zero value as a single sample.
func sampleCount(s rhi.SampleCountFlags) vk.SampleCountFlagBits {
	if s == 0 {
		return vk.SampleCount1Bit
	}
	return vk.SampleCountFlagBits(s)
}
