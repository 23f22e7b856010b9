package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// Recording calls on a handle that does not belong to this backend are
// dropped; the validation layers report what that leaves missing.

func (d *Device) BeginCommandBuffer(cmd rhi.CommandBuffer, info rhi.CommandBufferBeginInfo) error {
	buffer, err := unwrap[vk.CommandBuffer](cmd)
	if err != nil {
		return err
	}
	ret := vk.BeginCommandBuffer(buffer, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(info.Flags),
	})
	return newError(ret, "begin command buffer")
}

func (d *Device) EndCommandBuffer(cmd rhi.CommandBuffer) error {
	buffer, err := unwrap[vk.CommandBuffer](cmd)
	if err != nil {
		return err
	}
	return newError(vk.EndCommandBuffer(buffer), "end command buffer")
}

func (d *Device) CmdBeginRenderPass(cmd rhi.CommandBuffer, info rhi.RenderPassBeginInfo) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil {
		return
	}
	clears := vkClearValues(info.ClearValues)
	vk.CmdBeginRenderPass(buffer, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      native[vk.RenderPass](info.RenderPass),
		Framebuffer:     native[vk.Framebuffer](info.Framebuffer),
		RenderArea:      vkRect(info.RenderArea),
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}, vk.SubpassContents(info.Contents))
}

func (d *Device) CmdEndRenderPass(cmd rhi.CommandBuffer) {
	if buffer := native[vk.CommandBuffer](cmd); buffer != nil {
		vk.CmdEndRenderPass(buffer)
	}
}

func (d *Device) CmdBindPipeline(cmd rhi.CommandBuffer, bindPoint rhi.PipelineBindPoint, pipeline rhi.Pipeline) {
	if buffer := native[vk.CommandBuffer](cmd); buffer != nil {
		vk.CmdBindPipeline(buffer, vk.PipelineBindPoint(bindPoint), native[vk.Pipeline](pipeline))
	}
}

func (d *Device) CmdBindVertexBuffers(cmd rhi.CommandBuffer, firstBinding uint32, buffers []rhi.Buffer, offsets []rhi.DeviceSize) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil || len(buffers) == 0 {
		return
	}
	vkOffsets := make([]vk.DeviceSize, len(buffers))
	for i := range vkOffsets {
		if i < len(offsets) {
			vkOffsets[i] = vk.DeviceSize(offsets[i])
		}
	}
	vk.CmdBindVertexBuffers(buffer, firstBinding, uint32(len(buffers)), natives[vk.Buffer](buffers), vkOffsets)
}

func (d *Device) CmdBindIndexBuffer(cmd rhi.CommandBuffer, buf rhi.Buffer, offset rhi.DeviceSize, indexType rhi.IndexType) {
	if buffer := native[vk.CommandBuffer](cmd); buffer != nil {
		vk.CmdBindIndexBuffer(buffer, native[vk.Buffer](buf), vk.DeviceSize(offset), vk.IndexType(indexType))
	}
}

func (d *Device) CmdBindDescriptorSets(cmd rhi.CommandBuffer, bindPoint rhi.PipelineBindPoint, layout rhi.PipelineLayout, firstSet uint32, sets []rhi.DescriptorSet, dynamicOffsets []uint32) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil || len(sets) == 0 {
		return
	}
	vk.CmdBindDescriptorSets(buffer, vk.PipelineBindPoint(bindPoint), native[vk.PipelineLayout](layout),
		firstSet, uint32(len(sets)), natives[vk.DescriptorSet](sets),
		uint32(len(dynamicOffsets)), dynamicOffsets)
}

func (d *Device) CmdDraw(cmd rhi.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if buffer := native[vk.CommandBuffer](cmd); buffer != nil {
		vk.CmdDraw(buffer, vertexCount, instanceCount, firstVertex, firstInstance)
	}
}

func (d *Device) CmdDrawIndexed(cmd rhi.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	if buffer := native[vk.CommandBuffer](cmd); buffer != nil {
		vk.CmdDrawIndexed(buffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
	}
}

func (d *Device) CmdSetViewport(cmd rhi.CommandBuffer, viewports []rhi.Viewport) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil || len(viewports) == 0 {
		return
	}
	vk.CmdSetViewport(buffer, 0, uint32(len(viewports)), vkViewports(viewports))
}

func (d *Device) CmdSetScissor(cmd rhi.CommandBuffer, scissors []rhi.Rect2D) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil || len(scissors) == 0 {
		return
	}
	vk.CmdSetScissor(buffer, 0, uint32(len(scissors)), vkRects(scissors))
}

func (d *Device) CmdCopyBuffer(cmd rhi.CommandBuffer, src, dst rhi.Buffer, regions []rhi.BufferCopy) {
	buffer := native[vk.CommandBuffer](cmd)
	if buffer == nil || len(regions) == 0 {
		return
	}
	copies := make([]vk.BufferCopy, len(regions))
	for i, r := range regions {
		copies[i] = vk.BufferCopy{
			SrcOffset: vk.DeviceSize(r.SrcOffset),
			DstOffset: vk.DeviceSize(r.DstOffset),
			Size:      vk.DeviceSize(r.Size),
		}
	}
	vk.CmdCopyBuffer(buffer, native[vk.Buffer](src), native[vk.Buffer](dst), uint32(len(copies)), copies)
}
