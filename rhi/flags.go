package rhi

// Numeric values of every enum and flag below match the Vulkan API so a
// backend may convert them with a plain type conversion.

type Format uint32

const (
	FormatUndefined          Format = 0
	FormatR8G8B8A8Unorm      Format = 37
	FormatR8G8B8A8Srgb       Format = 43
	FormatB8G8R8A8Unorm      Format = 44
	FormatB8G8R8A8Srgb       Format = 50
	FormatR32Sfloat          Format = 100
	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Sfloat Format = 109
	FormatD16Unorm           Format = 124
	FormatD32Sfloat          Format = 126
	FormatD24UnormS8Uint     Format = 129
	FormatD32SfloatS8Uint    Format = 130
)

// HasStencil reports whether a depth format carries a stencil aspect.
func (f Format) HasStencil() bool {
	return f == FormatD24UnormS8Uint || f == FormatD32SfloatS8Uint
}

type ImageLayout uint32

const (
	ImageLayoutUndefined                     ImageLayout = 0
	ImageLayoutGeneral                       ImageLayout = 1
	ImageLayoutColorAttachmentOptimal        ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal   ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal         ImageLayout = 5
	ImageLayoutTransferSrcOptimal            ImageLayout = 6
	ImageLayoutTransferDstOptimal            ImageLayout = 7
	ImageLayoutPresentSrc                    ImageLayout = 1000001002
)

type ImageTiling uint32

const (
	ImageTilingOptimal ImageTiling = 0
	ImageTilingLinear  ImageTiling = 1
)

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x01
	ImageUsageTransferDst            ImageUsageFlags = 0x02
	ImageUsageSampled                ImageUsageFlags = 0x04
	ImageUsageStorage                ImageUsageFlags = 0x08
	ImageUsageColorAttachment        ImageUsageFlags = 0x10
	ImageUsageDepthStencilAttachment ImageUsageFlags = 0x20
	ImageUsageTransientAttachment    ImageUsageFlags = 0x40
	ImageUsageInputAttachment        ImageUsageFlags = 0x80
)

type ImageCreateFlags uint32

const (
	ImageCreateCubeCompatible ImageCreateFlags = 0x10
)

type ImageAspectFlags uint32

const (
	ImageAspectColor   ImageAspectFlags = 0x1
	ImageAspectDepth   ImageAspectFlags = 0x2
	ImageAspectStencil ImageAspectFlags = 0x4
)

type BufferUsageFlags uint32

const (
	BufferUsageTransferSrc        BufferUsageFlags = 0x001
	BufferUsageTransferDst        BufferUsageFlags = 0x002
	BufferUsageUniformTexelBuffer BufferUsageFlags = 0x004
	BufferUsageStorageTexelBuffer BufferUsageFlags = 0x008
	BufferUsageUniformBuffer      BufferUsageFlags = 0x010
	BufferUsageStorageBuffer      BufferUsageFlags = 0x020
	BufferUsageIndexBuffer        BufferUsageFlags = 0x040
	BufferUsageVertexBuffer       BufferUsageFlags = 0x080
	BufferUsageIndirectBuffer     BufferUsageFlags = 0x100
)

type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocal     MemoryPropertyFlags = 0x01
	MemoryPropertyHostVisible     MemoryPropertyFlags = 0x02
	MemoryPropertyHostCoherent    MemoryPropertyFlags = 0x04
	MemoryPropertyHostCached      MemoryPropertyFlags = 0x08
	MemoryPropertyLazilyAllocated MemoryPropertyFlags = 0x10
)

type SharingMode uint32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

type ShaderStageFlags uint32

const (
	ShaderStageVertex                 ShaderStageFlags = 0x01
	ShaderStageTessellationControl    ShaderStageFlags = 0x02
	ShaderStageTessellationEvaluation ShaderStageFlags = 0x04
	ShaderStageGeometry               ShaderStageFlags = 0x08
	ShaderStageFragment               ShaderStageFlags = 0x10
	ShaderStageCompute                ShaderStageFlags = 0x20
	ShaderStageAllGraphics            ShaderStageFlags = 0x1f
	ShaderStageAll                    ShaderStageFlags = 0x7fffffff
)

type VertexInputRate uint32

const (
	VertexInputRateVertex   VertexInputRate = 0
	VertexInputRateInstance VertexInputRate = 1
)

type PrimitiveTopology uint32

const (
	PrimitiveTopologyPointList     PrimitiveTopology = 0
	PrimitiveTopologyLineList      PrimitiveTopology = 1
	PrimitiveTopologyLineStrip     PrimitiveTopology = 2
	PrimitiveTopologyTriangleList  PrimitiveTopology = 3
	PrimitiveTopologyTriangleStrip PrimitiveTopology = 4
	PrimitiveTopologyTriangleFan   PrimitiveTopology = 5
)

type PolygonMode uint32

const (
	PolygonModeFill  PolygonMode = 0
	PolygonModeLine  PolygonMode = 1
	PolygonModePoint PolygonMode = 2
)

type CullModeFlags uint32

const (
	CullModeNone         CullModeFlags = 0
	CullModeFront        CullModeFlags = 1
	CullModeBack         CullModeFlags = 2
	CullModeFrontAndBack CullModeFlags = 3
)

type FrontFace uint32

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

type SampleCountFlags uint32

const (
	SampleCount1  SampleCountFlags = 0x01
	SampleCount2  SampleCountFlags = 0x02
	SampleCount4  SampleCountFlags = 0x04
	SampleCount8  SampleCountFlags = 0x08
	SampleCount16 SampleCountFlags = 0x10
	SampleCount32 SampleCountFlags = 0x20
	SampleCount64 SampleCountFlags = 0x40
)

type CompareOp uint32

const (
	CompareOpNever          CompareOp = 0
	CompareOpLess           CompareOp = 1
	CompareOpEqual          CompareOp = 2
	CompareOpLessOrEqual    CompareOp = 3
	CompareOpGreater        CompareOp = 4
	CompareOpNotEqual       CompareOp = 5
	CompareOpGreaterOrEqual CompareOp = 6
	CompareOpAlways         CompareOp = 7
)

type StencilOp uint32

const (
	StencilOpKeep              StencilOp = 0
	StencilOpZero              StencilOp = 1
	StencilOpReplace           StencilOp = 2
	StencilOpIncrementAndClamp StencilOp = 3
	StencilOpDecrementAndClamp StencilOp = 4
	StencilOpInvert            StencilOp = 5
	StencilOpIncrementAndWrap  StencilOp = 6
	StencilOpDecrementAndWrap  StencilOp = 7
)

type LogicOp uint32

const (
	LogicOpClear        LogicOp = 0
	LogicOpAnd          LogicOp = 1
	LogicOpAndReverse   LogicOp = 2
	LogicOpCopy         LogicOp = 3
	LogicOpAndInverted  LogicOp = 4
	LogicOpNoOp         LogicOp = 5
	LogicOpXor          LogicOp = 6
	LogicOpOr           LogicOp = 7
	LogicOpNor          LogicOp = 8
	LogicOpEquivalent   LogicOp = 9
	LogicOpInvert       LogicOp = 10
	LogicOpOrReverse    LogicOp = 11
	LogicOpCopyInverted LogicOp = 12
	LogicOpOrInverted   LogicOp = 13
	LogicOpNand         LogicOp = 14
	LogicOpSet          LogicOp = 15
)

type BlendFactor uint32

const (
	BlendFactorZero             BlendFactor = 0
	BlendFactorOne              BlendFactor = 1
	BlendFactorSrcColor         BlendFactor = 2
	BlendFactorOneMinusSrcColor BlendFactor = 3
	BlendFactorDstColor         BlendFactor = 4
	BlendFactorOneMinusDstColor BlendFactor = 5
	BlendFactorSrcAlpha         BlendFactor = 6
	BlendFactorOneMinusSrcAlpha BlendFactor = 7
	BlendFactorDstAlpha         BlendFactor = 8
	BlendFactorOneMinusDstAlpha BlendFactor = 9
)

type BlendOp uint32

const (
	BlendOpAdd             BlendOp = 0
	BlendOpSubtract        BlendOp = 1
	BlendOpReverseSubtract BlendOp = 2
	BlendOpMin             BlendOp = 3
	BlendOpMax             BlendOp = 4
)

type ColorComponentFlags uint32

const (
	ColorComponentR   ColorComponentFlags = 0x1
	ColorComponentG   ColorComponentFlags = 0x2
	ColorComponentB   ColorComponentFlags = 0x4
	ColorComponentA   ColorComponentFlags = 0x8
	ColorComponentAll ColorComponentFlags = 0xf
)

type DynamicState uint32

const (
	DynamicStateViewport  DynamicState = 0
	DynamicStateScissor   DynamicState = 1
	DynamicStateLineWidth DynamicState = 2
)

type AttachmentLoadOp uint32

const (
	AttachmentLoadOpLoad     AttachmentLoadOp = 0
	AttachmentLoadOpClear    AttachmentLoadOp = 1
	AttachmentLoadOpDontCare AttachmentLoadOp = 2
)

type AttachmentStoreOp uint32

const (
	AttachmentStoreOpStore    AttachmentStoreOp = 0
	AttachmentStoreOpDontCare AttachmentStoreOp = 1
)

type PipelineBindPoint uint32

const (
	PipelineBindPointGraphics PipelineBindPoint = 0
	PipelineBindPointCompute  PipelineBindPoint = 1
)

type PipelineStageFlags uint32

const (
	PipelineStageTopOfPipe             PipelineStageFlags = 0x0001
	PipelineStageDrawIndirect          PipelineStageFlags = 0x0002
	PipelineStageVertexInput           PipelineStageFlags = 0x0004
	PipelineStageVertexShader          PipelineStageFlags = 0x0008
	PipelineStageFragmentShader        PipelineStageFlags = 0x0080
	PipelineStageEarlyFragmentTests    PipelineStageFlags = 0x0100
	PipelineStageLateFragmentTests     PipelineStageFlags = 0x0200
	PipelineStageColorAttachmentOutput PipelineStageFlags = 0x0400
	PipelineStageComputeShader         PipelineStageFlags = 0x0800
	PipelineStageTransfer              PipelineStageFlags = 0x1000
	PipelineStageBottomOfPipe          PipelineStageFlags = 0x2000
)

type AccessFlags uint32

const (
	AccessIndirectCommandRead         AccessFlags = 0x00001
	AccessIndexRead                   AccessFlags = 0x00002
	AccessVertexAttributeRead         AccessFlags = 0x00004
	AccessUniformRead                 AccessFlags = 0x00008
	AccessInputAttachmentRead         AccessFlags = 0x00010
	AccessShaderRead                  AccessFlags = 0x00020
	AccessShaderWrite                 AccessFlags = 0x00040
	AccessColorAttachmentRead         AccessFlags = 0x00080
	AccessColorAttachmentWrite        AccessFlags = 0x00100
	AccessDepthStencilAttachmentRead  AccessFlags = 0x00200
	AccessDepthStencilAttachmentWrite AccessFlags = 0x00400
	AccessTransferRead                AccessFlags = 0x00800
	AccessTransferWrite               AccessFlags = 0x01000
	AccessMemoryRead                  AccessFlags = 0x08000
	AccessMemoryWrite                 AccessFlags = 0x10000
)

type DependencyFlags uint32

const (
	DependencyByRegion DependencyFlags = 0x1
)

// SubpassExternal refers to commands outside the render pass in a subpass
// dependency.
const SubpassExternal = ^uint32(0)

type SubpassContents uint32

const (
	SubpassContentsInline                  SubpassContents = 0
	SubpassContentsSecondaryCommandBuffers SubpassContents = 1
)

type IndexType uint32

const (
	IndexTypeUint16 IndexType = 0
	IndexTypeUint32 IndexType = 1
)

type DescriptorType uint32

const (
	DescriptorTypeSampler              DescriptorType = 0
	DescriptorTypeCombinedImageSampler DescriptorType = 1
	DescriptorTypeSampledImage         DescriptorType = 2
	DescriptorTypeStorageImage         DescriptorType = 3
	DescriptorTypeUniformTexelBuffer   DescriptorType = 4
	DescriptorTypeStorageTexelBuffer   DescriptorType = 5
	DescriptorTypeUniformBuffer        DescriptorType = 6
	DescriptorTypeStorageBuffer        DescriptorType = 7
	DescriptorTypeUniformBufferDynamic DescriptorType = 8
	DescriptorTypeStorageBufferDynamic DescriptorType = 9
	DescriptorTypeInputAttachment      DescriptorType = 10
)

type CommandBufferUsageFlags uint32

const (
	CommandBufferUsageOneTimeSubmit      CommandBufferUsageFlags = 0x1
	CommandBufferUsageRenderPassContinue CommandBufferUsageFlags = 0x2
	CommandBufferUsageSimultaneousUse    CommandBufferUsageFlags = 0x4
)

type Filter uint32

const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

type SamplerMipmapMode uint32

const (
	SamplerMipmapModeNearest SamplerMipmapMode = 0
	SamplerMipmapModeLinear  SamplerMipmapMode = 1
)

type SamplerAddressMode uint32

const (
	SamplerAddressModeRepeat         SamplerAddressMode = 0
	SamplerAddressModeMirroredRepeat SamplerAddressMode = 1
	SamplerAddressModeClampToEdge    SamplerAddressMode = 2
	SamplerAddressModeClampToBorder  SamplerAddressMode = 3
)

type BorderColor uint32

const (
	BorderColorFloatTransparentBlack BorderColor = 0
	BorderColorIntTransparentBlack   BorderColor = 1
	BorderColorFloatOpaqueBlack      BorderColor = 2
	BorderColorIntOpaqueBlack        BorderColor = 3
	BorderColorFloatOpaqueWhite      BorderColor = 4
	BorderColorIntOpaqueWhite        BorderColor = 5
)
