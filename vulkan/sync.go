package vulkan

import vk "github.com/vulkan-go/vulkan"

// frameSlot is one of the F pipelining contexts cycled round robin. The
// fence serializes reuse of everything recorded into the slot.
type frameSlot struct {
	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
	inFlight       vk.Fence
	commands       *CommandBuffer
}

// createSyncPrimitives gives every slot its semaphore pair and a fence
// created signaled, so the first wait on each slot returns immediately.
func (d *Device) createSyncPrimitives() error {
	for i := range d.slots {
		slot := &d.slots[i]
		ret := vk.CreateSemaphore(d.device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &slot.imageAvailable)
		if isError(ret) {
			return newError(ret, "create semaphore")
		}
		ret = vk.CreateSemaphore(d.device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &slot.renderFinished)
		if isError(ret) {
			return newError(ret, "create semaphore")
		}
		ret = vk.CreateFence(d.device, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &slot.inFlight)
		if isError(ret) {
			return newError(ret, "create fence")
		}
	}
	return nil
}

func (d *Device) destroySyncPrimitives() {
	for i := range d.slots {
		slot := &d.slots[i]
		if slot.imageAvailable != vk.NullSemaphore {
			vk.DestroySemaphore(d.device, slot.imageAvailable, nil)
			slot.imageAvailable = vk.NullSemaphore
		}
		if slot.renderFinished != vk.NullSemaphore {
			vk.DestroySemaphore(d.device, slot.renderFinished, nil)
			slot.renderFinished = vk.NullSemaphore
		}
		if slot.inFlight != vk.NullFence {
			vk.DestroyFence(d.device, slot.inFlight, nil)
			slot.inFlight = vk.NullFence
		}
	}
}
