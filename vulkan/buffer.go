package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// createBuffer creates a buffer with memory of the given properties bound to
// it. Nothing is left behind on failure.
func (d *Device) createBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags, sharing vk.SharingMode, props vk.MemoryPropertyFlags) (vk.Buffer, vk.DeviceMemory, error) {
	if size == 0 {
		return vk.NullBuffer, vk.NullDeviceMemory, errors.New("vulkan: buffer size must be positive")
	}
	var buffer vk.Buffer
	ret := vk.CreateBuffer(d.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: sharing,
	}, nil, &buffer)
	if isError(ret) {
		return vk.NullBuffer, vk.NullDeviceMemory, newError(ret, "create buffer")
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, buffer, &reqs)
	reqs.Deref()

	memory, err := d.allocate(reqs, props)
	if err != nil {
		vk.DestroyBuffer(d.device, buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}
	if ret := vk.BindBufferMemory(d.device, buffer, memory, 0); isError(ret) {
		vk.DestroyBuffer(d.device, buffer, nil)
		vk.FreeMemory(d.device, memory, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, newError(ret, "bind buffer memory")
	}
	return buffer, memory, nil
}

// createStaging returns a host visible transfer source holding data.
func (d *Device) createStaging(data []byte) (vk.Buffer, vk.DeviceMemory, error) {
	buffer, memory, err := d.createBuffer(vk.DeviceSize(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.SharingModeExclusive,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return vk.NullBuffer, vk.NullDeviceMemory, errors.Wrap(err, "vulkan: staging buffer")
	}
	if err := d.upload(memory, data); err != nil {
		d.destroyStaging(buffer, memory)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}
	return buffer, memory, nil
}

func (d *Device) destroyStaging(buffer vk.Buffer, memory vk.DeviceMemory) {
	vk.DestroyBuffer(d.device, buffer, nil)
	vk.FreeMemory(d.device, memory, nil)
}

func (d *Device) copyBuffer(src, dst vk.Buffer, size vk.DeviceSize) error {
	return runOneTime(d.transfer(), func(cmd vk.CommandBuffer) {
		vk.CmdCopyBuffer(cmd, src, dst, 1, []vk.BufferCopy{{Size: size}})
	})
}

func (d *Device) CreateBuffer(info rhi.BufferCreateInfo, props rhi.MemoryPropertyFlags) (rhi.Buffer, rhi.DeviceMemory, error) {
	buffer, memory, err := d.createBuffer(vk.DeviceSize(info.Size),
		vk.BufferUsageFlags(info.Usage),
		vk.SharingMode(info.SharingMode),
		vk.MemoryPropertyFlags(props))
	if err != nil {
		return nil, nil, err
	}
	return wrap[rhi.BufferKind](buffer), wrap[rhi.DeviceMemoryKind](memory), nil
}

// CreateBufferAndCopyData creates a device local buffer filled with data via
// a staging copy. info.Size is raised to len(data) if smaller and the
// transfer destination usage is added.
func (d *Device) CreateBufferAndCopyData(info rhi.BufferCreateInfo, data []byte) (rhi.Buffer, rhi.DeviceMemory, error) {
	if len(data) == 0 {
		return nil, nil, errors.New("vulkan: no data to copy")
	}
	size := max(vk.DeviceSize(info.Size), vk.DeviceSize(len(data)))

	staging, stagingMemory, err := d.createStaging(data)
	if err != nil {
		return nil, nil, err
	}
	defer d.destroyStaging(staging, stagingMemory)

	buffer, memory, err := d.createBuffer(size,
		vk.BufferUsageFlags(info.Usage)|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.SharingMode(info.SharingMode),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, nil, err
	}
	if err := d.copyBuffer(staging, buffer, vk.DeviceSize(len(data))); err != nil {
		vk.DestroyBuffer(d.device, buffer, nil)
		vk.FreeMemory(d.device, memory, nil)
		return nil, nil, err
	}
	return wrap[rhi.BufferKind](buffer), wrap[rhi.DeviceMemoryKind](memory), nil
}

func (d *Device) DestroyBuffer(buf rhi.Buffer) {
	buffer := native[vk.Buffer](buf)
	if buffer == vk.NullBuffer {
		return
	}
	vk.DestroyBuffer(d.device, buffer, nil)
	if r, ok := buf.(*Buffer); ok {
		r.reset()
	}
}
