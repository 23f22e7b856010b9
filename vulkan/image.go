package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type imageDesc struct {
	width, height uint32
	format        vk.Format
	tiling        vk.ImageTiling
	usage         vk.ImageUsageFlags
	properties    vk.MemoryPropertyFlags
	flags         vk.ImageCreateFlags
	mipLevels     uint32
	layers        uint32
}

func imageDescOf(info rhi.ImageCreateInfo) imageDesc {
	return imageDesc{
		width:      info.Width,
		height:     info.Height,
		format:     vk.Format(info.Format),
		tiling:     vk.ImageTiling(info.Tiling),
		usage:      vk.ImageUsageFlags(info.Usage),
		properties: vk.MemoryPropertyFlags(info.MemoryProperties),
		flags:      vk.ImageCreateFlags(info.Flags),
		mipLevels:  max(info.MipLevels, 1),
		layers:     max(info.ArrayLayers, 1),
	}
}

// createImage creates a 2D image with memory bound to it. Nothing is left
// behind on failure.
func (d *Device) createImage(desc imageDesc) (vk.Image, vk.DeviceMemory, error) {
	var image vk.Image
	ret := vk.CreateImage(d.device, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     desc.flags,
		ImageType: vk.ImageType2d,
		Format:    desc.format,
		Extent: vk.Extent3D{
			Width:  desc.width,
			Height: desc.height,
			Depth:  1,
		},
		MipLevels:     desc.mipLevels,
		ArrayLayers:   desc.layers,
		Samples:       vk.SampleCount1Bit,
		Tiling:        desc.tiling,
		Usage:         desc.usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &image)
	if isError(ret) {
		return vk.NullImage, vk.NullDeviceMemory, newError(ret, "create image")
	}

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, image, &reqs)
	reqs.Deref()

	memory, err := d.allocate(reqs, desc.properties)
	if err != nil {
		vk.DestroyImage(d.device, image, nil)
		return vk.NullImage, vk.NullDeviceMemory, err
	}
	if ret := vk.BindImageMemory(d.device, image, memory, 0); isError(ret) {
		vk.DestroyImage(d.device, image, nil)
		vk.FreeMemory(d.device, memory, nil)
		return vk.NullImage, vk.NullDeviceMemory, newError(ret, "bind image memory")
	}
	return image, memory, nil
}

func (d *Device) createImageView(image vk.Image, format vk.Format, aspect vk.ImageAspectFlags) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(d.device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return vk.NullImageView, newError(ret, "create image view")
	}
	return view, nil
}

type barrierMasks struct {
	srcAccess vk.AccessFlags
	dstAccess vk.AccessFlags
	srcStage  vk.PipelineStageFlags
	dstStage  vk.PipelineStageFlags
}

// transitionMasks knows exactly the two transitions a texture upload needs.
func transitionMasks(oldLayout, newLayout vk.ImageLayout) (barrierMasks, error) {
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		return barrierMasks{
			srcAccess: 0,
			dstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}, nil
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		return barrierMasks{
			srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		}, nil
	}
	return barrierMasks{}, errors.Wrapf(rhi.ErrUnsupportedTransition, "vulkan: %d -> %d", oldLayout, newLayout)
}

// transitionImageLayout records a layout barrier in a one-time command
// buffer. Unsupported transitions fail before anything is allocated.
func (d *Device) transitionImageLayout(image vk.Image, layers uint32, oldLayout, newLayout vk.ImageLayout) error {
	masks, err := transitionMasks(oldLayout, newLayout)
	if err != nil {
		return err
	}
	return runOneTime(d.transfer(), func(cmd vk.CommandBuffer) {
		vk.CmdPipelineBarrier(cmd, masks.srcStage, masks.dstStage, 0,
			0, nil,
			0, nil,
			1, []vk.ImageMemoryBarrier{{
				SType:               vk.StructureTypeImageMemoryBarrier,
				SrcAccessMask:       masks.srcAccess,
				DstAccessMask:       masks.dstAccess,
				OldLayout:           oldLayout,
				NewLayout:           newLayout,
				SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
				DstQueueFamilyIndex: vk.QueueFamilyIgnored,
				Image:               image,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					LevelCount: 1,
					LayerCount: layers,
				},
			}})
	})
}

func (d *Device) copyBufferToImage(buffer vk.Buffer, image vk.Image, width, height, layers uint32) error {
	return runOneTime(d.transfer(), func(cmd vk.CommandBuffer) {
		vk.CmdCopyBufferToImage(cmd, buffer, image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: layers,
			},
			ImageExtent: vk.Extent3D{
				Width:  width,
				Height: height,
				Depth:  1,
			},
		}})
	})
}

// depthCandidates are tried in order by findDepthFormat.
var depthCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// findDepthFormat returns the first candidate usable as an optimally tiled
// depth attachment.
func findDepthFormat(supported func(vk.Format) vk.FormatFeatureFlags) (vk.Format, error) {
	want := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, format := range depthCandidates {
		if supported(format)&want == want {
			return format, nil
		}
	}
	return vk.FormatUndefined, errors.WithStack(rhi.ErrNoDepthFormat)
}

func (d *Device) optimalFeatures(format vk.Format) vk.FormatFeatureFlags {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(d.gpu, format, &props)
	props.Deref()
	return props.OptimalTilingFeatures
}

func (d *Device) CreateImage(info rhi.ImageCreateInfo) (rhi.Image, rhi.DeviceMemory, error) {
	image, memory, err := d.createImage(imageDescOf(info))
	if err != nil {
		return nil, nil, err
	}
	return wrap[rhi.ImageKind](image), wrap[rhi.DeviceMemoryKind](memory), nil
}

// CreateImageAndCopyData uploads data through a host visible staging buffer
// into a new device local image and leaves it ready for sampling.
func (d *Device) CreateImageAndCopyData(info rhi.ImageCreateInfo, data []byte) (rhi.Image, rhi.ImageView, rhi.DeviceMemory, error) {
	staging, stagingMemory, err := d.createStaging(data)
	if err != nil {
		return nil, nil, nil, err
	}
	defer d.destroyStaging(staging, stagingMemory)

	desc := imageDescOf(info)
	desc.usage |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	if desc.properties == 0 {
		desc.properties = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	}
	image, memory, err := d.createImage(desc)
	if err != nil {
		return nil, nil, nil, err
	}
	fail := func(err error) (rhi.Image, rhi.ImageView, rhi.DeviceMemory, error) {
		vk.DestroyImage(d.device, image, nil)
		vk.FreeMemory(d.device, memory, nil)
		return nil, nil, nil, err
	}

	if err := d.transitionImageLayout(image, desc.layers, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return fail(err)
	}
	if err := d.copyBufferToImage(staging, image, desc.width, desc.height, desc.layers); err != nil {
		return fail(err)
	}
	if err := d.transitionImageLayout(image, desc.layers, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		return fail(err)
	}
	view, err := d.createImageView(image, desc.format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return fail(err)
	}
	return wrap[rhi.ImageKind](image), wrap[rhi.ImageViewKind](view), wrap[rhi.DeviceMemoryKind](memory), nil
}

func (d *Device) CreateImageView(image rhi.Image, format rhi.Format, aspect rhi.ImageAspectFlags) (rhi.ImageView, error) {
	img, err := unwrap[vk.Image](image)
	if err != nil {
		return nil, err
	}
	view, err := d.createImageView(img, vk.Format(format), vk.ImageAspectFlags(aspect))
	if err != nil {
		return nil, err
	}
	return wrap[rhi.ImageViewKind](view), nil
}

func (d *Device) CreateSampler(info rhi.SamplerCreateInfo) (rhi.Sampler, error) {
	var sampler vk.Sampler
	ret := vk.CreateSampler(d.device, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.Filter(info.MagFilter),
		MinFilter:               vk.Filter(info.MinFilter),
		MipmapMode:              vk.SamplerMipmapMode(info.MipmapMode),
		AddressModeU:            vk.SamplerAddressMode(info.AddressModeU),
		AddressModeV:            vk.SamplerAddressMode(info.AddressModeV),
		AddressModeW:            vk.SamplerAddressMode(info.AddressModeW),
		MipLodBias:              info.MipLodBias,
		AnisotropyEnable:        bool32(info.AnisotropyEnable),
		MaxAnisotropy:           info.MaxAnisotropy,
		CompareEnable:           bool32(info.CompareEnable),
		CompareOp:               vk.CompareOp(info.CompareOp),
		MinLod:                  info.MinLod,
		MaxLod:                  info.MaxLod,
		BorderColor:             vk.BorderColor(info.BorderColor),
		UnnormalizedCoordinates: bool32(info.UnnormalizedCoordinates),
	}, nil, &sampler)
	if isError(ret) {
		return nil, newError(ret, "create sampler")
	}
	return wrap[rhi.SamplerKind](sampler), nil
}

func (d *Device) DestroyImage(img rhi.Image) {
	if image := native[vk.Image](img); image != vk.NullImage {
		vk.DestroyImage(d.device, image, nil)
		if r, ok := img.(*Image); ok {
			r.reset()
		}
	}
}

func (d *Device) DestroyImageView(view rhi.ImageView) {
	if v := native[vk.ImageView](view); v != vk.NullImageView {
		vk.DestroyImageView(d.device, v, nil)
		if r, ok := view.(*ImageView); ok {
			r.reset()
		}
	}
}

func (d *Device) DestroySampler(sampler rhi.Sampler) {
	if s := native[vk.Sampler](sampler); s != vk.NullSampler {
		vk.DestroySampler(d.device, s, nil)
		if r, ok := sampler.(*Sampler); ok {
			r.reset()
		}
	}
}
