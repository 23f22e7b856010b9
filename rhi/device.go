package rhi

// Device is the backend-agnostic rendering device. Renderers are written
// against this interface only; a backend supplies the concrete handles.
//
// A Device is not safe for concurrent use. Every fallible call returns an
// error and, on failure, nil handles with no partially created objects left
// behind.
type Device interface {
	// Swapchain and attachments.
	CreateSwapchain() error
	CreateSwapchainImageViews() error
	CreateFramebufferImageAndView() error
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error)

	// Pipelines.
	CreateShaderModule(code []byte) (Shader, error)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateRenderPass(info RenderPassCreateInfo) (RenderPass, error)
	CreatePipelineLayout(info PipelineLayoutCreateInfo) (PipelineLayout, error)

	// Resources. Buffers and images come with their bound memory.
	CreateBuffer(info BufferCreateInfo, props MemoryPropertyFlags) (Buffer, DeviceMemory, error)
	CreateBufferAndCopyData(info BufferCreateInfo, data []byte) (Buffer, DeviceMemory, error)
	CreateImage(info ImageCreateInfo) (Image, DeviceMemory, error)
	CreateImageAndCopyData(info ImageCreateInfo, data []byte) (Image, ImageView, DeviceMemory, error)
	CreateImageView(image Image, format Format, aspect ImageAspectFlags) (ImageView, error)
	CreateSampler(info SamplerCreateInfo) (Sampler, error)

	// Descriptors.
	CreateDescriptorSetLayout(info DescriptorSetLayoutCreateInfo) (DescriptorSetLayout, error)
	AllocateDescriptorSets(info DescriptorSetAllocateInfo) ([]DescriptorSet, error)
	UpdateDescriptorSets(writes []WriteDescriptorSet) error

	// Memory.
	MapMemory(mem DeviceMemory, offset, size DeviceSize) ([]byte, error)
	UnmapMemory(mem DeviceMemory)
	FreeMemory(mem DeviceMemory)

	DestroyBuffer(buf Buffer)
	DestroyImage(img Image)
	DestroyImageView(view ImageView)
	DestroyFramebuffer(fb Framebuffer)
	DestroyShaderModule(shader Shader)
	DestroyPipeline(pipeline Pipeline)
	DestroyPipelineLayout(layout PipelineLayout)
	DestroyRenderPass(pass RenderPass)
	DestroySampler(sampler Sampler)
	DestroyDescriptorSetLayout(layout DescriptorSetLayout)

	MaxFramesInFlight() int
	CurrentFrameIndex() int
	CurrentSwapchainImageIndex() uint32
	SwapchainInfo() SwapchainInfo
	DepthImageInfo() DepthImageInfo
	CurrentCommandBuffer() CommandBuffer
	CommandBuffers() []CommandBuffer

	// Command recording.
	BeginCommandBuffer(cmd CommandBuffer, info CommandBufferBeginInfo) error
	EndCommandBuffer(cmd CommandBuffer) error
	BeginOneTimeCommandBuffer() (CommandBuffer, error)
	EndOneTimeCommandBuffer(cmd CommandBuffer) error
	CmdBeginRenderPass(cmd CommandBuffer, info RenderPassBeginInfo)
	CmdEndRenderPass(cmd CommandBuffer)
	CmdBindPipeline(cmd CommandBuffer, bindPoint PipelineBindPoint, pipeline Pipeline)
	CmdBindVertexBuffers(cmd CommandBuffer, firstBinding uint32, buffers []Buffer, offsets []DeviceSize)
	CmdBindIndexBuffer(cmd CommandBuffer, buffer Buffer, offset DeviceSize, indexType IndexType)
	CmdBindDescriptorSets(cmd CommandBuffer, bindPoint PipelineBindPoint, layout PipelineLayout, firstSet uint32, sets []DescriptorSet, dynamicOffsets []uint32)
	CmdDraw(cmd CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CmdDrawIndexed(cmd CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	CmdSetViewport(cmd CommandBuffer, viewports []Viewport)
	CmdSetScissor(cmd CommandBuffer, scissors []Rect2D)
	CmdCopyBuffer(cmd CommandBuffer, src, dst Buffer, regions []BufferCopy)

	// BeforePass opens the next frame. It returns false without error when
	// the swapchain had to be recreated and the frame must be skipped. A
	// second call before SubmitRendering returns ErrFrameAlreadyBegun.
	BeforePass() (bool, error)
	// SubmitRendering submits the current slot's command buffer and presents
	// the acquired image. A failed submit leaves the device unable to render.
	SubmitRendering() error
	// OnSwapchainRecreated registers fn to run after every successful
	// swapchain recreation. Framebuffers over the old views are stale by then.
	OnSwapchainRecreated(fn func())
	WaitIdle() error

	// Destroy releases every object the device created, in reverse order of
	// creation. The device is unusable afterwards.
	Destroy()
}
