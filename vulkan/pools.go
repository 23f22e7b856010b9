package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// createCommandPool creates the pool every per-frame and one-time buffer
// comes from. Buffers can be reset individually.
func (d *Device) createCommandPool() error {
	ret := vk.CreateCommandPool(d.device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.families.graphics,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &d.commandPool)
	if isError(ret) {
		return newError(ret, "create command pool")
	}
	return nil
}

// allocateCommandBuffers allocates one primary buffer per frame slot.
func (d *Device) allocateCommandBuffers() error {
	buffers := make([]vk.CommandBuffer, d.config.FramesInFlight)
	ret := vk.AllocateCommandBuffers(d.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(buffers)),
	}, buffers)
	if isError(ret) {
		return newError(ret, "allocate command buffers")
	}
	d.slots = make([]frameSlot, len(buffers))
	for i := range buffers {
		d.slots[i].commands = wrap[rhi.CommandBufferKind](buffers[i])
	}
	return nil
}

func (d *Device) freeCommandBuffers() {
	var buffers []vk.CommandBuffer
	for i := range d.slots {
		if cmd := d.slots[i].commands.Resource(); cmd != nil {
			buffers = append(buffers, cmd)
			d.slots[i].commands.reset()
		}
	}
	if len(buffers) > 0 {
		vk.FreeCommandBuffers(d.device, d.commandPool, uint32(len(buffers)), buffers)
	}
}

// descriptorPoolSizes sizes the pool for one uniform buffer and one combined
// image sampler per frame slot.
func descriptorPoolSizes(frames int) []vk.DescriptorPoolSize {
	return []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: uint32(frames),
		},
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: uint32(frames),
		},
	}
}

func (d *Device) createDescriptorPool() error {
	sizes := descriptorPoolSizes(d.config.FramesInFlight)
	ret := vk.CreateDescriptorPool(d.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
		MaxSets:       uint32(d.config.FramesInFlight),
	}, nil, &d.descriptorPool)
	if isError(ret) {
		return newError(ret, "create descriptor pool")
	}
	return nil
}
