package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const defaultEntryPoint = "main"

// pipelineState holds the native fixed-function state of a graphics
// pipeline. Its slices must stay alive until the create call returns.
type pipelineState struct {
	stages        []vk.PipelineShaderStageCreateInfo
	vertexInput   vk.PipelineVertexInputStateCreateInfo
	inputAssembly vk.PipelineInputAssemblyStateCreateInfo
	viewport      vk.PipelineViewportStateCreateInfo
	rasterizer    vk.PipelineRasterizationStateCreateInfo
	multisampling vk.PipelineMultisampleStateCreateInfo
	depthStencil  *vk.PipelineDepthStencilStateCreateInfo
	colorBlend    vk.PipelineColorBlendStateCreateInfo
	dynamic       *vk.PipelineDynamicStateCreateInfo
}

func newPipelineState(info rhi.GraphicsPipelineCreateInfo) (*pipelineState, error) {
	if len(info.Stages) == 0 {
		return nil, errors.New("vulkan: graphics pipeline without shader stages")
	}
	p := &pipelineState{}

	p.stages = make([]vk.PipelineShaderStageCreateInfo, len(info.Stages))
	for i, stage := range info.Stages {
		module, err := unwrap[vk.ShaderModule](stage.Module)
		if err != nil {
			return nil, errors.Wrapf(err, "vulkan: shader stage %d", i)
		}
		entry := stage.Entry
		if entry == "" {
			entry = defaultEntryPoint
		}
		p.stages[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(stage.Stage),
			Module: module,
			PName:  safeString(entry),
		}
	}

	bindings := make([]vk.VertexInputBindingDescription, len(info.VertexInput.Bindings))
	for i, b := range info.VertexInput.Bindings {
		bindings[i] = vk.VertexInputBindingDescription{
			Binding:   b.Binding,
			Stride:    b.Stride,
			InputRate: vk.VertexInputRate(b.InputRate),
		}
	}
	attributes := make([]vk.VertexInputAttributeDescription, len(info.VertexInput.Attributes))
	for i, a := range info.VertexInput.Attributes {
		attributes[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Binding,
			Format:   vk.Format(a.Format),
			Offset:   a.Offset,
		}
	}
	p.vertexInput = vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	p.inputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopology(info.InputAssembly.Topology),
		PrimitiveRestartEnable: bool32(info.InputAssembly.PrimitiveRestartEnable),
	}

	// Dynamic viewports leave the slices empty and only give counts.
	vs := info.Viewport
	p.viewport = vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: max(vs.ViewportCount, uint32(len(vs.Viewports))),
		ScissorCount:  max(vs.ScissorCount, uint32(len(vs.Scissors))),
	}
	if len(vs.Viewports) > 0 {
		p.viewport.PViewports = vkViewports(vs.Viewports)
	}
	if len(vs.Scissors) > 0 {
		p.viewport.PScissors = vkRects(vs.Scissors)
	}

	r := info.Rasterization
	lineWidth := r.LineWidth
	if lineWidth == 0 {
		lineWidth = 1
	}
	p.rasterizer = vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        bool32(r.DepthClampEnable),
		RasterizerDiscardEnable: bool32(r.RasterizerDiscardEnable),
		PolygonMode:             vk.PolygonMode(r.PolygonMode),
		CullMode:                vk.CullModeFlags(r.CullMode),
		FrontFace:               vk.FrontFace(r.FrontFace),
		DepthBiasEnable:         bool32(r.DepthBiasEnable),
		DepthBiasConstantFactor: r.DepthBiasConstantFactor,
		DepthBiasClamp:          r.DepthBiasClamp,
		DepthBiasSlopeFactor:    r.DepthBiasSlopeFactor,
		LineWidth:               lineWidth,
	}

	m := info.Multisample
	p.multisampling = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  sampleCount(m.RasterizationSamples),
		SampleShadingEnable:   bool32(m.SampleShadingEnable),
		MinSampleShading:      m.MinSampleShading,
		AlphaToCoverageEnable: bool32(m.AlphaToCoverageEnable),
		AlphaToOneEnable:      bool32(m.AlphaToOneEnable),
	}

	if ds := info.DepthStencil; ds != nil {
		p.depthStencil = &vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       bool32(ds.DepthTestEnable),
			DepthWriteEnable:      bool32(ds.DepthWriteEnable),
			DepthCompareOp:        vk.CompareOp(ds.DepthCompareOp),
			DepthBoundsTestEnable: bool32(ds.DepthBoundsTestEnable),
			StencilTestEnable:     bool32(ds.StencilTestEnable),
			Front:                 vkStencilOp(ds.Front),
			Back:                  vkStencilOp(ds.Back),
			MinDepthBounds:        ds.MinDepthBounds,
			MaxDepthBounds:        ds.MaxDepthBounds,
		}
	}

	cb := info.ColorBlend
	blends := make([]vk.PipelineColorBlendAttachmentState, len(cb.Attachments))
	for i, a := range cb.Attachments {
		blends[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         bool32(a.BlendEnable),
			SrcColorBlendFactor: vk.BlendFactor(a.SrcColorBlendFactor),
			DstColorBlendFactor: vk.BlendFactor(a.DstColorBlendFactor),
			ColorBlendOp:        vk.BlendOp(a.ColorBlendOp),
			SrcAlphaBlendFactor: vk.BlendFactor(a.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: vk.BlendFactor(a.DstAlphaBlendFactor),
			AlphaBlendOp:        vk.BlendOp(a.AlphaBlendOp),
			ColorWriteMask:      vk.ColorComponentFlags(a.ColorWriteMask),
		}
	}
	p.colorBlend = vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   bool32(cb.LogicOpEnable),
		LogicOp:         vk.LogicOp(cb.LogicOp),
		AttachmentCount: uint32(len(blends)),
		PAttachments:    blends,
		BlendConstants:  cb.BlendConstants,
	}

	if len(info.DynamicStates) > 0 {
		states := make([]vk.DynamicState, len(info.DynamicStates))
		for i, s := range info.DynamicStates {
			states[i] = vk.DynamicState(s)
		}
		p.dynamic = &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(states)),
			PDynamicStates:    states,
		}
	}
	return p, nil
}

func (d *Device) CreateGraphicsPipeline(info rhi.GraphicsPipelineCreateInfo) (rhi.Pipeline, error) {
	layout, err := unwrap[vk.PipelineLayout](info.Layout)
	if err != nil {
		return nil, err
	}
	renderPass, err := unwrap[vk.RenderPass](info.RenderPass)
	if err != nil {
		return nil, err
	}
	state, err := newPipelineState(info)
	if err != nil {
		return nil, err
	}

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(d.device, nil, 1, []vk.GraphicsPipelineCreateInfo{{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(state.stages)),
		PStages:             state.stages,
		PVertexInputState:   &state.vertexInput,
		PInputAssemblyState: &state.inputAssembly,
		PViewportState:      &state.viewport,
		PRasterizationState: &state.rasterizer,
		PMultisampleState:   &state.multisampling,
		PDepthStencilState:  state.depthStencil,
		PColorBlendState:    &state.colorBlend,
		PDynamicState:       state.dynamic,
		Layout:              layout,
		RenderPass:          renderPass,
		Subpass:             info.Subpass,
		BasePipelineIndex:   -1,
	}}, nil, pipelines)
	if isError(ret) {
		return nil, newError(ret, "create graphics pipeline")
	}
	return wrap[rhi.PipelineKind](pipelines[0]), nil
}

func (d *Device) CreatePipelineLayout(info rhi.PipelineLayoutCreateInfo) (rhi.PipelineLayout, error) {
	setLayouts := make([]vk.DescriptorSetLayout, len(info.SetLayouts))
	for i, l := range info.SetLayouts {
		layout, err := unwrap[vk.DescriptorSetLayout](l)
		if err != nil {
			return nil, errors.Wrapf(err, "vulkan: set layout %d", i)
		}
		setLayouts[i] = layout
	}
	ranges := make([]vk.PushConstantRange, len(info.PushConstantRanges))
	for i, r := range info.PushConstantRanges {
		ranges[i] = vk.PushConstantRange{
			StageFlags: vk.ShaderStageFlags(r.StageFlags),
			Offset:     r.Offset,
			Size:       r.Size,
		}
	}

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}, nil, &layout)
	if isError(ret) {
		return nil, newError(ret, "create pipeline layout")
	}
	return wrap[rhi.PipelineLayoutKind](layout), nil
}

func (d *Device) DestroyPipeline(pipeline rhi.Pipeline) {
	if p := native[vk.Pipeline](pipeline); p != vk.NullPipeline {
		vk.DestroyPipeline(d.device, p, nil)
		if r, ok := pipeline.(*Pipeline); ok {
			r.reset()
		}
	}
}

func (d *Device) DestroyPipelineLayout(layout rhi.PipelineLayout) {
	if l := native[vk.PipelineLayout](layout); l != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(d.device, l, nil)
		if r, ok := layout.(*PipelineLayout); ok {
			r.reset()
		}
	}
}
