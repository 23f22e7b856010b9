package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func (d *Device) CreateDescriptorSetLayout(info rhi.DescriptorSetLayoutCreateInfo) (rhi.DescriptorSetLayout, error) {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(info.Bindings))
	for i, b := range info.Bindings {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  vk.DescriptorType(b.DescriptorType),
			DescriptorCount: max(b.DescriptorCount, 1),
			StageFlags:      vk.ShaderStageFlags(b.StageFlags),
		}
	}
	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(d.device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &layout)
	if isError(ret) {
		return nil, newError(ret, "create descriptor set layout")
	}
	return wrap[rhi.DescriptorSetLayoutKind](layout), nil
}

// AllocateDescriptorSets allocates one set per layout from the device pool.
// Sets allocated before a failure are returned to the pool.
func (d *Device) AllocateDescriptorSets(info rhi.DescriptorSetAllocateInfo) ([]rhi.DescriptorSet, error) {
	layouts := make([]vk.DescriptorSetLayout, len(info.SetLayouts))
	for i, l := range info.SetLayouts {
		layout, err := unwrap[vk.DescriptorSetLayout](l)
		if err != nil {
			return nil, errors.Wrapf(err, "vulkan: set layout %d", i)
		}
		layouts[i] = layout
	}

	sets := make([]vk.DescriptorSet, 0, len(layouts))
	for _, layout := range layouts {
		var set vk.DescriptorSet
		ret := vk.AllocateDescriptorSets(d.device, &vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     d.descriptorPool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{layout},
		}, &set)
		if isError(ret) {
			if len(sets) > 0 {
				vk.FreeDescriptorSets(d.device, d.descriptorPool, uint32(len(sets)), &sets[0])
			}
			return nil, newError(ret, "allocate descriptor sets")
		}
		sets = append(sets, set)
	}
	return wrapAll[rhi.DescriptorSetKind](sets), nil
}

func vkWriteDescriptorSet(w rhi.WriteDescriptorSet) (vk.WriteDescriptorSet, error) {
	set, err := unwrap[vk.DescriptorSet](w.DstSet)
	if err != nil {
		return vk.WriteDescriptorSet{}, err
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      w.DstBinding,
		DstArrayElement: w.DstArrayElement,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorType(w.DescriptorType),
	}
	switch {
	case w.BufferInfo != nil:
		buffer, err := unwrap[vk.Buffer](w.BufferInfo.Buffer)
		if err != nil {
			return vk.WriteDescriptorSet{}, err
		}
		write.PBufferInfo = []vk.DescriptorBufferInfo{{
			Buffer: buffer,
			Offset: vk.DeviceSize(w.BufferInfo.Offset),
			Range:  vk.DeviceSize(w.BufferInfo.Range),
		}}
	case w.ImageInfo != nil:
		write.PImageInfo = []vk.DescriptorImageInfo{{
			Sampler:     native[vk.Sampler](w.ImageInfo.Sampler),
			ImageView:   native[vk.ImageView](w.ImageInfo.ImageView),
			ImageLayout: vk.ImageLayout(w.ImageInfo.ImageLayout),
		}}
	default:
		return vk.WriteDescriptorSet{}, errors.Errorf("vulkan: descriptor write to binding %d has no buffer or image info", w.DstBinding)
	}
	return write, nil
}

// UpdateDescriptorSets applies all writes in one call or none of them.
func (d *Device) UpdateDescriptorSets(writes []rhi.WriteDescriptorSet) error {
	if len(writes) == 0 {
		return nil
	}
	vkWrites := make([]vk.WriteDescriptorSet, len(writes))
	for i, w := range writes {
		write, err := vkWriteDescriptorSet(w)
		if err != nil {
			return errors.Wrapf(err, "vulkan: descriptor write %d", i)
		}
		vkWrites[i] = write
	}
	vk.UpdateDescriptorSets(d.device, uint32(len(vkWrites)), vkWrites, 0, nil)
	return nil
}

func (d *Device) DestroyDescriptorSetLayout(layout rhi.DescriptorSetLayout) {
	if l := native[vk.DescriptorSetLayout](layout); l != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(d.device, l, nil)
		if r, ok := layout.(*DescriptorSetLayout); ok {
			r.reset()
		}
	}
}
