package vulkan

import (
	"unsafe"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// findMemoryType returns the first memory type index allowed by filter whose
// property flags contain every bit of flags.
func findMemoryType(props vk.PhysicalDeviceMemoryProperties, filter uint32, flags vk.MemoryPropertyFlags) (uint32, error) {
	count := props.MemoryTypeCount
	if count > vk.MaxMemoryTypes {
		count = vk.MaxMemoryTypes
	}
	for i := uint32(0); i < count; i++ {
		if filter&(1<<i) == 0 {
			continue
		}
		memType := props.MemoryTypes[i]
		memType.Deref()
		if memType.PropertyFlags&flags == flags {
			return i, nil
		}
	}
	return 0, errors.WithStack(rhi.ErrNoMemoryType)
}

// allocate finds a memory type for reqs and allocates a block of reqs.Size.
func (d *Device) allocate(reqs vk.MemoryRequirements, flags vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	index, err := findMemoryType(d.memoryProperties, reqs.MemoryTypeBits, flags)
	if err != nil {
		return vk.NullDeviceMemory, err
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(d.device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: index,
	}, nil, &memory)
	if isError(ret) {
		return vk.NullDeviceMemory, newError(ret, "allocate memory")
	}
	return memory, nil
}

// writeMapped copies data to a mapped pointer and reports short copies.
func writeMapped(ptr unsafe.Pointer, data []byte) error {
	if n := vk.Memcopy(ptr, data); n != len(data) {
		return errors.Errorf("vulkan: short copy into mapped memory, %d != %d", n, len(data))
	}
	return nil
}

// upload maps memory, copies data to its start and unmaps it again.
func (d *Device) upload(memory vk.DeviceMemory, data []byte) error {
	var ptr unsafe.Pointer
	ret := vk.MapMemory(d.device, memory, 0, vk.DeviceSize(len(data)), 0, &ptr)
	if isError(ret) {
		return newError(ret, "map memory")
	}
	defer vk.UnmapMemory(d.device, memory)
	return writeMapped(ptr, data)
}

func (d *Device) MapMemory(mem rhi.DeviceMemory, offset, size rhi.DeviceSize) ([]byte, error) {
	memory, err := unwrap[vk.DeviceMemory](mem)
	if err != nil {
		return nil, err
	}
	if size == rhi.WholeSize {
		return nil, errors.New("vulkan: map memory requires an explicit size")
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(d.device, memory, vk.DeviceSize(offset), vk.DeviceSize(size), 0, &ptr)
	if isError(ret) {
		return nil, newError(ret, "map memory")
	}
	return unsafe.Slice((*byte)(ptr), int(size)), nil
}

func (d *Device) UnmapMemory(mem rhi.DeviceMemory) {
	if memory := native[vk.DeviceMemory](mem); memory != vk.NullDeviceMemory {
		vk.UnmapMemory(d.device, memory)
	}
}

func (d *Device) FreeMemory(mem rhi.DeviceMemory) {
	memory := native[vk.DeviceMemory](mem)
	if memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(d.device, memory, nil)
	if r, ok := mem.(*DeviceMemory); ok {
		r.reset()
	}
}
