package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainState tracks resize recovery.
type SwapchainState int

const (
	SwapchainActive SwapchainState = iota
	SwapchainInvalidated
	SwapchainRecreating
)

func (s SwapchainState) String() string {
	switch s {
	case SwapchainActive:
		return "active"
	case SwapchainInvalidated:
		return "invalidated"
	case SwapchainRecreating:
		return "recreating"
	}
	return "unknown"
}

type depthResources struct {
	image  *Image
	memory vk.DeviceMemory
	view   *ImageView
	format vk.Format
}

type swapchain struct {
	handle      vk.Swapchain
	images      []vk.Image
	views       []*ImageView
	format      vk.Format
	extent      vk.Extent2D
	presentMode vk.PresentMode
	depth       depthResources
}

type swapchainSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

type swapchainConfig struct {
	format      vk.SurfaceFormat
	presentMode vk.PresentMode
	extent      vk.Extent2D
	imageCount  uint32
}

func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode prefers mailbox unless vsync is requested. FIFO is
// always available.
func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	return vk.PresentModeFifo
}

// chooseExtent uses the surface's current extent when it is defined and
// otherwise clamps the framebuffer size into the supported range.
func chooseExtent(caps vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(uint32(max(width, 0)), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(uint32(max(height, 0)), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func chooseSwapchain(support swapchainSupport, width, height int, vsync bool) (swapchainConfig, error) {
	if len(support.formats) == 0 {
		return swapchainConfig{}, errors.New("vulkan: surface has no pixel formats")
	}
	return swapchainConfig{
		format:      chooseSurfaceFormat(support.formats),
		presentMode: choosePresentMode(support.presentModes, vsync),
		extent:      chooseExtent(support.capabilities, width, height),
		imageCount:  chooseImageCount(support.capabilities),
	}, nil
}

func clamp(v, lo, hi uint32) uint32 {
	return min(max(v, lo), hi)
}

func (d *Device) querySwapchainSupport() (swapchainSupport, error) {
	var support swapchainSupport
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(d.gpu, d.surface, &support.capabilities)
	if isError(ret) {
		return support, newError(ret, "get surface capabilities")
	}
	support.capabilities.Deref()
	support.capabilities.CurrentExtent.Deref()
	support.capabilities.MinImageExtent.Deref()
	support.capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(d.gpu, d.surface, &formatCount, nil)
	support.formats = make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(d.gpu, d.surface, &formatCount, support.formats)
	for i := range support.formats {
		support.formats[i].Deref()
	}

	var modeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(d.gpu, d.surface, &modeCount, nil)
	support.presentModes = make([]vk.PresentMode, modeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(d.gpu, d.surface, &modeCount, support.presentModes)
	return support, nil
}

// compositeAlpha picks the first supported mode, opaque first.
func compositeAlpha(caps vk.SurfaceCapabilities) vk.CompositeAlphaFlagBits {
	for _, bit := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(bit) != 0 {
			return bit
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// CreateSwapchain builds the swapchain for the current framebuffer size. A
// live swapchain is torn down first together with its image views and the
// depth attachment, which then have to be created again.
func (d *Device) CreateSwapchain() error {
	if err := releaseFor(deviceStages{d}, stageSwapchain, d.swapchain.handle != vk.NullSwapchain); err != nil {
		return err
	}
	return d.createSwapchain()
}

func (d *Device) createSwapchain() error {
	support, err := d.querySwapchainSupport()
	if err != nil {
		return err
	}
	width, height := d.window.FramebufferSize()
	cfg, err := chooseSwapchain(support, width, height, d.config.VSync)
	if err != nil {
		return err
	}

	preTransform := support.capabilities.CurrentTransform
	if vk.SurfaceTransformFlagBits(support.capabilities.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}
	sharing, families := d.families.sharing()

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(d.device, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               d.surface,
		MinImageCount:         cfg.imageCount,
		ImageFormat:           cfg.format.Format,
		ImageColorSpace:       cfg.format.ColorSpace,
		ImageExtent:           cfg.extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharing,
		QueueFamilyIndexCount: uint32(len(families)),
		PQueueFamilyIndices:   families,
		PreTransform:          preTransform,
		CompositeAlpha:        compositeAlpha(support.capabilities),
		PresentMode:           cfg.presentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}, nil, &handle)
	if isError(ret) {
		return newError(ret, "create swapchain")
	}

	var count uint32
	ret = vk.GetSwapchainImages(d.device, handle, &count, nil)
	if isError(ret) {
		vk.DestroySwapchain(d.device, handle, nil)
		return newError(ret, "get swapchain images")
	}
	images := make([]vk.Image, count)
	ret = vk.GetSwapchainImages(d.device, handle, &count, images)
	if isError(ret) {
		vk.DestroySwapchain(d.device, handle, nil)
		return newError(ret, "get swapchain images")
	}

	d.swapchain.handle = handle
	d.swapchain.images = images
	d.swapchain.format = cfg.format.Format
	d.swapchain.extent = cfg.extent
	d.swapchain.presentMode = cfg.presentMode
	d.log.Info("vulkan: swapchain created",
		"width", cfg.extent.Width,
		"height", cfg.extent.Height,
		"images", count,
		"present_mode", cfg.presentMode)
	return nil
}

// CreateSwapchainImageViews creates one color view per swapchain image,
// replacing any existing views.
func (d *Device) CreateSwapchainImageViews() error {
	if err := releaseFor(deviceStages{d}, stageImageViews, len(d.swapchain.views) > 0); err != nil {
		return err
	}
	return d.createSwapchainImageViews()
}

func (d *Device) createSwapchainImageViews() error {
	views := make([]*ImageView, 0, len(d.swapchain.images))
	for _, image := range d.swapchain.images {
		view, err := d.createImageView(image, d.swapchain.format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			for _, v := range views {
				vk.DestroyImageView(d.device, v.Resource(), nil)
			}
			return err
		}
		views = append(views, wrap[rhi.ImageViewKind](view))
	}
	d.swapchain.views = views
	return nil
}

// CreateFramebufferImageAndView creates the depth attachment matching the
// swapchain extent, replacing the existing one.
func (d *Device) CreateFramebufferImageAndView() error {
	live := d.swapchain.depth.view.Valid() || d.swapchain.depth.memory != vk.NullDeviceMemory
	if err := releaseFor(deviceStages{d}, stageDepth, live); err != nil {
		return err
	}
	return d.createDepth()
}

func (d *Device) createDepth() error {
	image, memory, err := d.createImage(imageDesc{
		width:      d.swapchain.extent.Width,
		height:     d.swapchain.extent.Height,
		format:     d.depthFormat,
		tiling:     vk.ImageTilingOptimal,
		usage:      vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		mipLevels:  1,
		layers:     1,
	})
	if err != nil {
		return err
	}
	view, err := d.createImageView(image, d.depthFormat, vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		vk.DestroyImage(d.device, image, nil)
		vk.FreeMemory(d.device, memory, nil)
		return err
	}
	d.swapchain.depth = depthResources{
		image:  wrap[rhi.ImageKind](image),
		memory: memory,
		view:   wrap[rhi.ImageViewKind](view),
		format: d.depthFormat,
	}
	return nil
}

func (d *Device) destroyDepth() {
	depth := &d.swapchain.depth
	if view := depth.view.Resource(); view != vk.NullImageView {
		vk.DestroyImageView(d.device, view, nil)
		depth.view.reset()
	}
	if image := depth.image.Resource(); image != vk.NullImage {
		vk.DestroyImage(d.device, image, nil)
		depth.image.reset()
	}
	if depth.memory != vk.NullDeviceMemory {
		vk.FreeMemory(d.device, depth.memory, nil)
		depth.memory = vk.NullDeviceMemory
	}
}

func (d *Device) destroySwapchainViews() {
	for _, view := range d.swapchain.views {
		if view.Valid() {
			vk.DestroyImageView(d.device, view.Resource(), nil)
			view.reset()
		}
	}
	d.swapchain.views = nil
}

func (d *Device) destroySwapchain() {
	if d.swapchain.handle != vk.NullSwapchain {
		vk.DestroySwapchain(d.device, d.swapchain.handle, nil)
		d.swapchain.handle = vk.NullSwapchain
	}
	d.swapchain.images = nil
}

func (d *Device) SwapchainInfo() rhi.SwapchainInfo {
	views := make([]rhi.ImageView, len(d.swapchain.views))
	for i := range d.swapchain.views {
		views[i] = d.swapchain.views[i]
	}
	return rhi.SwapchainInfo{
		Extent: rhi.Extent2D{
			Width:  d.swapchain.extent.Width,
			Height: d.swapchain.extent.Height,
		},
		ImageFormat: rhi.Format(d.swapchain.format),
		ImageViews:  views,
	}
}

func (d *Device) DepthImageInfo() rhi.DepthImageInfo {
	return rhi.DepthImageInfo{
		Image:  d.swapchain.depth.image,
		View:   d.swapchain.depth.view,
		Format: rhi.Format(d.swapchain.depth.format),
	}
}

func (d *Device) SwapchainState() SwapchainState {
	return d.swapchainState
}

// OnSwapchainRecreated registers fn to run after every successful
// recreation, typically to rebuild framebuffers.
func (d *Device) OnSwapchainRecreated(fn func()) {
	d.onRecreate = append(d.onRecreate, fn)
}

// swapchainStages are the steps of a swapchain rebuild in the order they
// have to run.
type swapchainStages interface {
	setState(s SwapchainState)
	waitIdle() error
	waitInFlight(slot int) error
	destroyDepth()
	destroyImageViews()
	destroySwapchain()
	createSwapchain() error
	createImageViews() error
	createDepth() error
}

// recreateSwapchain blocks while the window has no drawable area, drains the
// GPU and rebuilds the swapchain, its views and the depth attachment. It
// returns false if the window was closed while waiting.
func recreateSwapchain(win rhi.Window, stages swapchainStages, slot int) (bool, error) {
	stages.setState(SwapchainInvalidated)
	for {
		width, height := win.FramebufferSize()
		if width > 0 && height > 0 {
			break
		}
		if win.ShouldClose() {
			return false, nil
		}
		win.WaitEvents()
	}

	stages.setState(SwapchainRecreating)
	if err := stages.waitIdle(); err != nil {
		return false, err
	}
	if err := stages.waitInFlight(slot); err != nil {
		return false, err
	}
	stages.destroyDepth()
	stages.destroyImageViews()
	stages.destroySwapchain()

	if err := stages.createSwapchain(); err != nil {
		return false, err
	}
	if err := stages.createImageViews(); err != nil {
		return false, err
	}
	if err := stages.createDepth(); err != nil {
		return false, err
	}
	stages.setState(SwapchainActive)
	return true, nil
}

type swapchainStage int

const (
	stageSwapchain swapchainStage = iota
	stageImageViews
	stageDepth
)

// releaseFor destroys what creating stage would overwrite. Nothing happens
// unless live is set; otherwise the device is drained first and dependents
// go before what they were built from.
func releaseFor(stages swapchainStages, stage swapchainStage, live bool) error {
	if !live {
		return nil
	}
	if err := stages.waitIdle(); err != nil {
		return err
	}
	switch stage {
	case stageSwapchain:
		stages.destroyDepth()
		stages.destroyImageViews()
		stages.destroySwapchain()
	case stageImageViews:
		stages.destroyImageViews()
	case stageDepth:
		stages.destroyDepth()
	}
	return nil
}

type deviceStages struct {
	d *Device
}

func (s deviceStages) setState(state SwapchainState) { s.d.swapchainState = state }
func (s deviceStages) waitIdle() error               { return s.d.WaitIdle() }
func (s deviceStages) waitInFlight(slot int) error   { return slotSignals{s.d}.waitInFlight(slot) }
func (s deviceStages) destroyDepth()                 { s.d.destroyDepth() }
func (s deviceStages) destroyImageViews()            { s.d.destroySwapchainViews() }
func (s deviceStages) destroySwapchain()             { s.d.destroySwapchain() }
func (s deviceStages) createSwapchain() error        { return s.d.createSwapchain() }
func (s deviceStages) createImageViews() error       { return s.d.createSwapchainImageViews() }
func (s deviceStages) createDepth() error            { return s.d.createDepth() }

func (d *Device) recreate() error {
	ok, err := recreateSwapchain(d.window, deviceStages{d}, d.pacer.current)
	if err != nil {
		return errors.Wrap(err, "vulkan: recreate swapchain")
	}
	if !ok {
		d.log.Debug("vulkan: window closed during swapchain recreation")
		return nil
	}
	for _, fn := range d.onRecreate {
		fn()
	}
	return nil
}
