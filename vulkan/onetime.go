package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// transferQueue is the pool and queue pair one-time command buffers run on.
type transferQueue interface {
	allocate() (vk.CommandBuffer, error)
	begin(cmd vk.CommandBuffer) error
	end(cmd vk.CommandBuffer) error
	submit(cmd vk.CommandBuffer) error
	waitIdle() error
	free(cmd vk.CommandBuffer)
}

// beginOneTime allocates a command buffer and begins it for a single
// submission. The buffer is freed again if it cannot be begun.
func beginOneTime(q transferQueue) (vk.CommandBuffer, error) {
	cmd, err := q.allocate()
	if err != nil {
		return nil, err
	}
	if err := q.begin(cmd); err != nil {
		q.free(cmd)
		return nil, err
	}
	return cmd, nil
}

// endOneTime ends, submits and waits for cmd, then frees it whatever the
// outcome.
func endOneTime(q transferQueue, cmd vk.CommandBuffer) error {
	defer q.free(cmd)
	if err := q.end(cmd); err != nil {
		return err
	}
	if err := q.submit(cmd); err != nil {
		return err
	}
	return q.waitIdle()
}

// runOneTime records with fn into a fresh one-time buffer and blocks until
// the GPU executed it.
func runOneTime(q transferQueue, fn func(cmd vk.CommandBuffer)) error {
	cmd, err := beginOneTime(q)
	if err != nil {
		return err
	}
	fn(cmd)
	return endOneTime(q, cmd)
}

type graphicsTransfer struct {
	d *Device
}

func (t graphicsTransfer) allocate() (vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(t.d.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        t.d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if isError(ret) {
		return nil, newError(ret, "allocate one-time command buffer")
	}
	return buffers[0], nil
}

func (t graphicsTransfer) begin(cmd vk.CommandBuffer) error {
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	return newError(ret, "begin one-time command buffer")
}

func (t graphicsTransfer) end(cmd vk.CommandBuffer) error {
	return newError(vk.EndCommandBuffer(cmd), "end one-time command buffer")
}

func (t graphicsTransfer) submit(cmd vk.CommandBuffer) error {
	ret := vk.QueueSubmit(t.d.graphicsQueue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, vk.NullFence)
	return newError(ret, "submit one-time command buffer")
}

func (t graphicsTransfer) waitIdle() error {
	return newError(vk.QueueWaitIdle(t.d.graphicsQueue), "queue wait idle")
}

func (t graphicsTransfer) free(cmd vk.CommandBuffer) {
	vk.FreeCommandBuffers(t.d.device, t.d.commandPool, 1, []vk.CommandBuffer{cmd})
}

func (d *Device) transfer() transferQueue {
	if d.transferQueue != nil {
		return d.transferQueue
	}
	return graphicsTransfer{d}
}

func (d *Device) BeginOneTimeCommandBuffer() (rhi.CommandBuffer, error) {
	cmd, err := beginOneTime(d.transfer())
	if err != nil {
		return nil, err
	}
	return wrap[rhi.CommandBufferKind](cmd), nil
}

// EndOneTimeCommandBuffer submits cmd, blocks until the graphics queue is
// idle and frees it. cmd is invalid afterwards.
func (d *Device) EndOneTimeCommandBuffer(cmd rhi.CommandBuffer) error {
	buffer, err := unwrap[vk.CommandBuffer](cmd)
	if err != nil {
		return err
	}
	if r, ok := cmd.(*CommandBuffer); ok {
		defer r.reset()
	}
	return endOneTime(d.transfer(), buffer)
}
