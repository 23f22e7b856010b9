package rhi

// Kind tags a Handle with the type of GPU object it refers to. Kinds are
// zero-sized phantom types; they never carry data.
type Kind interface {
	String() string
	kind()
}

type (
	BufferKind              struct{}
	ImageKind               struct{}
	ImageViewKind           struct{}
	DeviceMemoryKind        struct{}
	PipelineKind            struct{}
	PipelineLayoutKind      struct{}
	RenderPassKind          struct{}
	FramebufferKind         struct{}
	ShaderKind              struct{}
	CommandBufferKind       struct{}
	DescriptorSetKind       struct{}
	DescriptorSetLayoutKind struct{}
	SamplerKind             struct{}
)

func (BufferKind) String() string              { return "buffer" }
func (ImageKind) String() string               { return "image" }
func (ImageViewKind) String() string           { return "image view" }
func (DeviceMemoryKind) String() string        { return "device memory" }
func (PipelineKind) String() string            { return "pipeline" }
func (PipelineLayoutKind) String() string      { return "pipeline layout" }
func (RenderPassKind) String() string          { return "render pass" }
func (FramebufferKind) String() string         { return "framebuffer" }
func (ShaderKind) String() string              { return "shader module" }
func (CommandBufferKind) String() string       { return "command buffer" }
func (DescriptorSetKind) String() string       { return "descriptor set" }
func (DescriptorSetLayoutKind) String() string { return "descriptor set layout" }
func (SamplerKind) String() string             { return "sampler" }

func (BufferKind) kind()              {}
func (ImageKind) kind()               {}
func (ImageViewKind) kind()           {}
func (DeviceMemoryKind) kind()        {}
func (PipelineKind) kind()            {}
func (PipelineLayoutKind) kind()      {}
func (RenderPassKind) kind()          {}
func (FramebufferKind) kind()         {}
func (ShaderKind) kind()              {}
func (CommandBufferKind) kind()       {}
func (DescriptorSetKind) kind()       {}
func (DescriptorSetLayoutKind) kind() {}
func (SamplerKind) kind()             {}

// Handle is an opaque reference to exactly one native GPU object of kind K.
// The concrete type is owned by the backend that created it; a Handle never
// outlives the Device that created it.
type Handle[K Kind] interface {
	// Kind returns the phantom tag of the handle.
	Kind() K
	// Valid reports whether the handle currently refers to a native object.
	Valid() bool
}

type (
	Buffer              = Handle[BufferKind]
	Image               = Handle[ImageKind]
	ImageView           = Handle[ImageViewKind]
	DeviceMemory        = Handle[DeviceMemoryKind]
	Pipeline            = Handle[PipelineKind]
	PipelineLayout      = Handle[PipelineLayoutKind]
	RenderPass          = Handle[RenderPassKind]
	Framebuffer         = Handle[FramebufferKind]
	Shader              = Handle[ShaderKind]
	CommandBuffer       = Handle[CommandBufferKind]
	DescriptorSet       = Handle[DescriptorSetKind]
	DescriptorSetLayout = Handle[DescriptorSetLayoutKind]
	Sampler             = Handle[SamplerKind]
)

// KindOf returns the printable name of a handle's kind. A nil handle reports
// the kind from the static type.
func KindOf[K Kind](h Handle[K]) string {
	var k K
	return k.String()
}
