package main

import (
	"log/slog"
	"time"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/loov/hrtime"
	"github.com/pkg/errors"
	lin "github.com/xlab/linmath"
)

// Interleaved position and color, three floats each.
const vertexStride = 6 * 4

var triangleVertices = lin.ArrayFloat32([]float32{
	-0.5, 0.5, 0, 1, 0, 0,
	0.5, 0.5, 0, 0, 1, 0,
	0, -0.5, 0, 0, 0, 1,
})

// mvpSize is the size of one column-major 4x4 float matrix.
const mvpSize = 16 * 4

type uniformSlot struct {
	buffer rhi.Buffer
	memory rhi.DeviceMemory
	mapped []byte
	set    rhi.DescriptorSet
}

// renderer draws a spinning triangle. It only talks to rhi.Device, so it
// never sees a native Vulkan handle.
type renderer struct {
	dev rhi.Device
	log *slog.Logger

	pass      rhi.RenderPass
	setLayout rhi.DescriptorSetLayout
	layout    rhi.PipelineLayout
	pipeline  rhi.Pipeline

	vertices     rhi.Buffer
	vertexMemory rhi.DeviceMemory
	uniforms     []uniformSlot
	framebuffers []rhi.Framebuffer

	start      time.Duration
	lastReport time.Duration
	frames     int
}

func newRenderer(dev rhi.Device, log *slog.Logger, vert, frag []byte) (r *renderer, err error) {
	r = &renderer{dev: dev, log: log}
	defer func() {
		if err != nil {
			r.destroy()
			r = nil
		}
	}()

	if err = r.createRenderPass(); err != nil {
		return
	}
	if err = r.createPipeline(vert, frag); err != nil {
		return
	}
	r.vertices, r.vertexMemory, err = dev.CreateBufferAndCopyData(rhi.BufferCreateInfo{
		Size:  rhi.DeviceSize(triangleVertices.Sizeof()),
		Usage: rhi.BufferUsageVertexBuffer,
	}, triangleVertices.Data())
	if err != nil {
		return
	}
	if err = r.createUniforms(); err != nil {
		return
	}
	if err = r.createFramebuffers(); err != nil {
		return
	}
	dev.OnSwapchainRecreated(r.rebuildFramebuffers)

	r.start = hrtime.Now()
	r.lastReport = r.start
	return
}

func (r *renderer) createRenderPass() error {
	info := r.dev.SwapchainInfo()
	depth := r.dev.DepthImageInfo()

	pass, err := r.dev.CreateRenderPass(rhi.RenderPassCreateInfo{
		Attachments: []rhi.AttachmentDescription{
			{
				Format:         info.ImageFormat,
				Samples:        rhi.SampleCount1,
				LoadOp:         rhi.AttachmentLoadOpClear,
				StoreOp:        rhi.AttachmentStoreOpStore,
				StencilLoadOp:  rhi.AttachmentLoadOpDontCare,
				StencilStoreOp: rhi.AttachmentStoreOpDontCare,
				InitialLayout:  rhi.ImageLayoutUndefined,
				FinalLayout:    rhi.ImageLayoutPresentSrc,
			},
			{
				Format:         depth.Format,
				Samples:        rhi.SampleCount1,
				LoadOp:         rhi.AttachmentLoadOpClear,
				StoreOp:        rhi.AttachmentStoreOpDontCare,
				StencilLoadOp:  rhi.AttachmentLoadOpDontCare,
				StencilStoreOp: rhi.AttachmentStoreOpDontCare,
				InitialLayout:  rhi.ImageLayoutUndefined,
				FinalLayout:    rhi.ImageLayoutDepthStencilAttachmentOptimal,
			},
		},
		Subpasses: []rhi.SubpassDescription{{
			BindPoint: rhi.PipelineBindPointGraphics,
			ColorAttachments: []rhi.AttachmentReference{
				{Attachment: 0, Layout: rhi.ImageLayoutColorAttachmentOptimal},
			},
			DepthStencilAttachment: &rhi.AttachmentReference{
				Attachment: 1,
				Layout:     rhi.ImageLayoutDepthStencilAttachmentOptimal,
			},
		}},
		Dependencies: []rhi.SubpassDependency{{
			SrcSubpass:    rhi.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  rhi.PipelineStageColorAttachmentOutput | rhi.PipelineStageEarlyFragmentTests,
			DstStageMask:  rhi.PipelineStageColorAttachmentOutput | rhi.PipelineStageEarlyFragmentTests,
			DstAccessMask: rhi.AccessColorAttachmentWrite | rhi.AccessDepthStencilAttachmentWrite,
		}},
	})
	if err != nil {
		return err
	}
	r.pass = pass
	return nil
}

func (r *renderer) createPipeline(vert, frag []byte) error {
	vs, err := r.dev.CreateShaderModule(vert)
	if err != nil {
		return errors.Wrap(err, "vertex shader")
	}
	defer r.dev.DestroyShaderModule(vs)
	fs, err := r.dev.CreateShaderModule(frag)
	if err != nil {
		return errors.Wrap(err, "fragment shader")
	}
	defer r.dev.DestroyShaderModule(fs)

	r.setLayout, err = r.dev.CreateDescriptorSetLayout(rhi.DescriptorSetLayoutCreateInfo{
		Bindings: []rhi.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  rhi.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      rhi.ShaderStageVertex,
		}},
	})
	if err != nil {
		return err
	}
	r.layout, err = r.dev.CreatePipelineLayout(rhi.PipelineLayoutCreateInfo{
		SetLayouts: []rhi.DescriptorSetLayout{r.setLayout},
	})
	if err != nil {
		return err
	}

	r.pipeline, err = r.dev.CreateGraphicsPipeline(rhi.GraphicsPipelineCreateInfo{
		Stages: []rhi.ShaderStage{
			{Stage: rhi.ShaderStageVertex, Module: vs},
			{Stage: rhi.ShaderStageFragment, Module: fs},
		},
		VertexInput: rhi.VertexInputState{
			Bindings: []rhi.VertexBinding{{
				Binding:   0,
				Stride:    vertexStride,
				InputRate: rhi.VertexInputRateVertex,
			}},
			Attributes: []rhi.VertexAttribute{
				{Location: 0, Binding: 0, Format: rhi.FormatR32G32B32Sfloat, Offset: 0},
				{Location: 1, Binding: 0, Format: rhi.FormatR32G32B32Sfloat, Offset: 12},
			},
		},
		InputAssembly: rhi.InputAssemblyState{Topology: rhi.PrimitiveTopologyTriangleList},
		Viewport:      rhi.ViewportState{ViewportCount: 1, ScissorCount: 1},
		Rasterization: rhi.RasterizationState{
			PolygonMode: rhi.PolygonModeFill,
			CullMode:    rhi.CullModeNone,
			FrontFace:   rhi.FrontFaceCounterClockwise,
			LineWidth:   1,
		},
		Multisample: rhi.MultisampleState{RasterizationSamples: rhi.SampleCount1},
		DepthStencil: &rhi.DepthStencilState{
			DepthTestEnable:  true,
			DepthWriteEnable: true,
			DepthCompareOp:   rhi.CompareOpLess,
			MaxDepthBounds:   1,
		},
		ColorBlend: rhi.ColorBlendState{
			Attachments: []rhi.ColorBlendAttachment{{ColorWriteMask: rhi.ColorComponentAll}},
		},
		DynamicStates: []rhi.DynamicState{rhi.DynamicStateViewport, rhi.DynamicStateScissor},
		Layout:        r.layout,
		RenderPass:    r.pass,
	})
	return err
}

// createUniforms gives every frame slot its own persistently mapped MVP
// buffer and descriptor set, so a slot never writes a buffer the GPU may
// still be reading for another slot.
func (r *renderer) createUniforms() error {
	n := r.dev.MaxFramesInFlight()
	layouts := make([]rhi.DescriptorSetLayout, n)
	for i := range layouts {
		layouts[i] = r.setLayout
	}
	sets, err := r.dev.AllocateDescriptorSets(rhi.DescriptorSetAllocateInfo{SetLayouts: layouts})
	if err != nil {
		return err
	}

	r.uniforms = make([]uniformSlot, n)
	writes := make([]rhi.WriteDescriptorSet, 0, n)
	for i := range r.uniforms {
		u := &r.uniforms[i]
		u.set = sets[i]
		u.buffer, u.memory, err = r.dev.CreateBuffer(rhi.BufferCreateInfo{
			Size:  mvpSize,
			Usage: rhi.BufferUsageUniformBuffer,
		}, rhi.MemoryPropertyHostVisible|rhi.MemoryPropertyHostCoherent)
		if err != nil {
			return err
		}
		u.mapped, err = r.dev.MapMemory(u.memory, 0, mvpSize)
		if err != nil {
			return err
		}
		writes = append(writes, rhi.WriteDescriptorSet{
			DstSet:         u.set,
			DstBinding:     0,
			DescriptorType: rhi.DescriptorTypeUniformBuffer,
			BufferInfo: &rhi.DescriptorBufferInfo{
				Buffer: u.buffer,
				Range:  mvpSize,
			},
		})
	}
	return r.dev.UpdateDescriptorSets(writes)
}

func (r *renderer) createFramebuffers() error {
	info := r.dev.SwapchainInfo()
	depth := r.dev.DepthImageInfo()

	r.framebuffers = make([]rhi.Framebuffer, 0, len(info.ImageViews))
	for _, view := range info.ImageViews {
		fb, err := r.dev.CreateFramebuffer(rhi.FramebufferCreateInfo{
			RenderPass:  r.pass,
			Attachments: []rhi.ImageView{view, depth.View},
			Width:       info.Extent.Width,
			Height:      info.Extent.Height,
			Layers:      1,
		})
		if err != nil {
			return err
		}
		r.framebuffers = append(r.framebuffers, fb)
	}
	return nil
}

func (r *renderer) destroyFramebuffers() {
	for _, fb := range r.framebuffers {
		r.dev.DestroyFramebuffer(fb)
	}
	r.framebuffers = nil
}

func (r *renderer) rebuildFramebuffers() {
	r.destroyFramebuffers()
	if err := r.createFramebuffers(); err != nil {
		r.log.Error("triangle: rebuild framebuffers", "err", err)
		return
	}
	extent := r.dev.SwapchainInfo().Extent
	r.log.Debug("triangle: framebuffers rebuilt", "width", extent.Width, "height", extent.Height)
}

// draw records and submits one frame. A frame skipped for swapchain
// recreation is not an error.
func (r *renderer) draw() error {
	ok, err := r.dev.BeforePass()
	if err != nil || !ok {
		return err
	}

	extent := r.dev.SwapchainInfo().Extent
	slot := r.dev.CurrentFrameIndex()
	image := r.dev.CurrentSwapchainImageIndex()
	if int(image) >= len(r.framebuffers) {
		return errors.Errorf("triangle: no framebuffer for image %d", image)
	}

	now := hrtime.Now()
	aspect := float32(extent.Width) / float32(max(extent.Height, 1))
	mvp := modelViewProjection((now - r.start).Seconds(), aspect)
	copy(r.uniforms[slot].mapped, mvp.Data())

	cmd := r.dev.CurrentCommandBuffer()
	if err := r.dev.BeginCommandBuffer(cmd, rhi.CommandBufferBeginInfo{}); err != nil {
		return err
	}
	area := rhi.Rect2D{Extent: extent}
	r.dev.CmdBeginRenderPass(cmd, rhi.RenderPassBeginInfo{
		RenderPass:  r.pass,
		Framebuffer: r.framebuffers[image],
		RenderArea:  area,
		ClearValues: []rhi.ClearValue{
			rhi.ClearColor(0.1, 0.1, 0.12, 1),
			rhi.ClearDepthStencil(1, 0),
		},
		Contents: rhi.SubpassContentsInline,
	})
	r.dev.CmdBindPipeline(cmd, rhi.PipelineBindPointGraphics, r.pipeline)
	r.dev.CmdSetViewport(cmd, []rhi.Viewport{rhi.FullViewport(extent)})
	r.dev.CmdSetScissor(cmd, []rhi.Rect2D{area})
	r.dev.CmdBindVertexBuffers(cmd, 0, []rhi.Buffer{r.vertices}, []rhi.DeviceSize{0})
	r.dev.CmdBindDescriptorSets(cmd, rhi.PipelineBindPointGraphics, r.layout, 0,
		[]rhi.DescriptorSet{r.uniforms[slot].set}, nil)
	r.dev.CmdDraw(cmd, 3, 1, 0, 0)
	r.dev.CmdEndRenderPass(cmd)
	if err := r.dev.EndCommandBuffer(cmd); err != nil {
		return err
	}
	if err := r.dev.SubmitRendering(); err != nil {
		return err
	}

	r.frames++
	if elapsed := now - r.lastReport; elapsed.Seconds() >= 5 {
		r.log.Info("triangle: frame time",
			"avg", elapsed/time.Duration(r.frames),
			"frames", r.frames)
		r.frames = 0
		r.lastReport = now
	}
	return nil
}

// destroy releases everything the renderer created. The device must be
// idle. Descriptor sets go back with the device's pool.
func (r *renderer) destroy() {
	r.destroyFramebuffers()
	for _, u := range r.uniforms {
		if u.mapped != nil {
			r.dev.UnmapMemory(u.memory)
		}
		if u.buffer != nil {
			r.dev.DestroyBuffer(u.buffer)
		}
		if u.memory != nil {
			r.dev.FreeMemory(u.memory)
		}
	}
	r.uniforms = nil
	if r.vertices != nil {
		r.dev.DestroyBuffer(r.vertices)
		r.dev.FreeMemory(r.vertexMemory)
	}
	if r.pipeline != nil {
		r.dev.DestroyPipeline(r.pipeline)
	}
	if r.layout != nil {
		r.dev.DestroyPipelineLayout(r.layout)
	}
	if r.setLayout != nil {
		r.dev.DestroyDescriptorSetLayout(r.setLayout)
	}
	if r.pass != nil {
		r.dev.DestroyRenderPass(r.pass)
	}
}
