package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// renderPassState converts a render pass description. Depth references
// point into depthRefs so they outlive the conversion.
type renderPassState struct {
	attachments  []vk.AttachmentDescription
	subpasses    []vk.SubpassDescription
	dependencies []vk.SubpassDependency
	depthRefs    []vk.AttachmentReference
}

func newRenderPassState(info rhi.RenderPassCreateInfo) (*renderPassState, error) {
	if len(info.Subpasses) == 0 {
		return nil, errors.New("vulkan: render pass without subpasses")
	}
	s := &renderPassState{
		attachments:  make([]vk.AttachmentDescription, len(info.Attachments)),
		subpasses:    make([]vk.SubpassDescription, len(info.Subpasses)),
		dependencies: make([]vk.SubpassDependency, len(info.Dependencies)),
		depthRefs:    make([]vk.AttachmentReference, len(info.Subpasses)),
	}
	for i, a := range info.Attachments {
		s.attachments[i] = vk.AttachmentDescription{
			Format:         vk.Format(a.Format),
			Samples:        sampleCount(a.Samples),
			LoadOp:         vk.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOp(a.StencilLoadOp),
			StencilStoreOp: vk.AttachmentStoreOp(a.StencilStoreOp),
			InitialLayout:  vk.ImageLayout(a.InitialLayout),
			FinalLayout:    vk.ImageLayout(a.FinalLayout),
		}
	}
	for i, sp := range info.Subpasses {
		desc := vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPoint(sp.BindPoint),
			InputAttachmentCount: uint32(len(sp.InputAttachments)),
			PInputAttachments:    vkAttachmentRefs(sp.InputAttachments),
			ColorAttachmentCount: uint32(len(sp.ColorAttachments)),
			PColorAttachments:    vkAttachmentRefs(sp.ColorAttachments),
		}
		if ref := sp.DepthStencilAttachment; ref != nil {
			s.depthRefs[i] = vk.AttachmentReference{
				Attachment: ref.Attachment,
				Layout:     vk.ImageLayout(ref.Layout),
			}
			desc.PDepthStencilAttachment = &s.depthRefs[i]
		}
		s.subpasses[i] = desc
	}
	for i, dep := range info.Dependencies {
		s.dependencies[i] = vk.SubpassDependency{
			SrcSubpass:      dep.SrcSubpass,
			DstSubpass:      dep.DstSubpass,
			SrcStageMask:    vk.PipelineStageFlags(dep.SrcStageMask),
			DstStageMask:    vk.PipelineStageFlags(dep.DstStageMask),
			SrcAccessMask:   vk.AccessFlags(dep.SrcAccessMask),
			DstAccessMask:   vk.AccessFlags(dep.DstAccessMask),
			DependencyFlags: vk.DependencyFlags(dep.DependencyFlags),
		}
	}
	return s, nil
}

func (d *Device) CreateRenderPass(info rhi.RenderPassCreateInfo) (rhi.RenderPass, error) {
	s, err := newRenderPassState(info)
	if err != nil {
		return nil, err
	}
	var pass vk.RenderPass
	ret := vk.CreateRenderPass(d.device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(s.attachments)),
		PAttachments:    s.attachments,
		SubpassCount:    uint32(len(s.subpasses)),
		PSubpasses:      s.subpasses,
		DependencyCount: uint32(len(s.dependencies)),
		PDependencies:   s.dependencies,
	}, nil, &pass)
	if isError(ret) {
		return nil, newError(ret, "create render pass")
	}
	return wrap[rhi.RenderPassKind](pass), nil
}

func (d *Device) CreateFramebuffer(info rhi.FramebufferCreateInfo) (rhi.Framebuffer, error) {
	pass, err := unwrap[vk.RenderPass](info.RenderPass)
	if err != nil {
		return nil, err
	}
	attachments := make([]vk.ImageView, len(info.Attachments))
	for i, a := range info.Attachments {
		view, err := unwrap[vk.ImageView](a)
		if err != nil {
			return nil, errors.Wrapf(err, "vulkan: framebuffer attachment %d", i)
		}
		attachments[i] = view
	}

	var framebuffer vk.Framebuffer
	ret := vk.CreateFramebuffer(d.device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      pass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           info.Width,
		Height:          info.Height,
		Layers:          max(info.Layers, 1),
	}, nil, &framebuffer)
	if isError(ret) {
		return nil, newError(ret, "create framebuffer")
	}
	return wrap[rhi.FramebufferKind](framebuffer), nil
}

func (d *Device) DestroyRenderPass(pass rhi.RenderPass) {
	if p := native[vk.RenderPass](pass); p != vk.NullRenderPass {
		vk.DestroyRenderPass(d.device, p, nil)
		if r, ok := pass.(*RenderPass); ok {
			r.reset()
		}
	}
}

func (d *Device) DestroyFramebuffer(fb rhi.Framebuffer) {
	if f := native[vk.Framebuffer](fb); f != vk.NullFramebuffer {
		vk.DestroyFramebuffer(d.device, f, nil)
		if r, ok := fb.(*Framebuffer); ok {
			r.reset()
		}
	}
}
