package vulkan

import (
	"log/slog"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// InitState is how far device initialization got. States are reached
// strictly in declaration order.
type InitState int

const (
	Uninitialized InitState = iota
	InstanceCreated
	DebugHooked
	SurfaceCreated
	PhysicalDeviceSelected
	LogicalDeviceAndQueuesCreated
	CommandPoolCreated
	CommandBuffersAllocated
	DescriptorPoolCreated
	SyncPrimitivesCreated
	SwapchainCreated
	SwapchainViewsCreated
	DepthResourcesCreated
	Ready
)

var initStateNames = [...]string{
	Uninitialized:                 "uninitialized",
	InstanceCreated:               "instance created",
	DebugHooked:                   "debug hooked",
	SurfaceCreated:                "surface created",
	PhysicalDeviceSelected:        "physical device selected",
	LogicalDeviceAndQueuesCreated: "logical device and queues created",
	CommandPoolCreated:            "command pool created",
	CommandBuffersAllocated:       "command buffers allocated",
	DescriptorPoolCreated:         "descriptor pool created",
	SyncPrimitivesCreated:         "sync primitives created",
	SwapchainCreated:              "swapchain created",
	SwapchainViewsCreated:         "swapchain views created",
	DepthResourcesCreated:         "depth resources created",
	Ready:                         "ready",
}

func (s InitState) String() string {
	if s < 0 || int(s) >= len(initStateNames) {
		return "unknown"
	}
	return initStateNames[s]
}

// Device is the Vulkan implementation of rhi.Device. It is not safe for
// concurrent use.
type Device struct {
	log    *slog.Logger
	config rhi.Config
	window Surface
	state  InitState
	layers []string

	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	surface       vk.Surface

	gpu              vk.PhysicalDevice
	gpuProperties    vk.PhysicalDeviceProperties
	memoryProperties vk.PhysicalDeviceMemoryProperties

	device        vk.Device
	families      queueFamilies
	graphicsQueue vk.Queue
	presentQueue  vk.Queue

	commandPool    vk.CommandPool
	descriptorPool vk.DescriptorPool
	slots          []frameSlot
	pacer          *framePacer

	swapchain      swapchain
	depthFormat    vk.Format
	swapchainState SwapchainState
	onRecreate     []func()

	// transferQueue replaces the graphics queue for one-time commands.
	transferQueue transferQueue
}

var _ rhi.Device = (*Device)(nil)

type initStep struct {
	state InitState
	run   func() error
}

// initSteps lists initialization in order. Each step's state is recorded
// once its run returned without error.
func (d *Device) initSteps() []initStep {
	return []initStep{
		{InstanceCreated, d.createInstance},
		{DebugHooked, d.setupDebugReport},
		{SurfaceCreated, d.createSurface},
		{PhysicalDeviceSelected, d.selectPhysicalDevice},
		{LogicalDeviceAndQueuesCreated, d.createLogicalDevice},
		{CommandPoolCreated, d.createCommandPool},
		{CommandBuffersAllocated, d.allocateCommandBuffers},
		{DescriptorPoolCreated, d.createDescriptorPool},
		{SyncPrimitivesCreated, d.createFrameSync},
		{SwapchainCreated, d.CreateSwapchain},
		{SwapchainViewsCreated, d.CreateSwapchainImageViews},
		{DepthResourcesCreated, d.CreateFramebufferImageAndView},
	}
}

// runInit runs steps in order and stops at the first failure. reached is
// called with every state that completed.
func runInit(steps []initStep, reached func(InitState)) error {
	for _, step := range steps {
		if err := step.run(); err != nil {
			return errors.Wrapf(err, "vulkan: init failed before %q", step.state)
		}
		reached(step.state)
	}
	reached(Ready)
	return nil
}

// NewDevice brings up a device rendering into info.Window, which must
// implement Surface. Anything created before a failure is destroyed again.
func NewDevice(info rhi.InitInfo) (*Device, error) {
	window, ok := info.Window.(Surface)
	if !ok {
		return nil, errors.New("vulkan: window cannot create a Vulkan surface")
	}
	if err := info.Config.Validate(); err != nil {
		return nil, err
	}
	d := &Device{
		log:    info.Log(),
		config: info.Config,
		window: window,
	}
	err := runInit(d.initSteps(), func(s InitState) {
		d.state = s
		d.log.Debug("vulkan: init", "state", s)
	})
	if err != nil {
		d.Destroy()
		return nil, err
	}
	d.log.Info("vulkan: device ready", "frames_in_flight", len(d.slots))
	return d, nil
}

func (d *Device) selectPhysicalDevice() error {
	if err := d.pickPhysicalDevice(); err != nil {
		return err
	}
	format, err := findDepthFormat(d.optimalFeatures)
	if err != nil {
		return err
	}
	d.depthFormat = format
	return nil
}

func (d *Device) createFrameSync() error {
	if err := d.createSyncPrimitives(); err != nil {
		return err
	}
	d.pacer = newFramePacer(slotSignals{d}, len(d.slots))
	return nil
}

// State reports how far initialization got.
func (d *Device) State() InitState {
	return d.state
}

func (d *Device) WaitIdle() error {
	if d.device == nil {
		return nil
	}
	return newError(vk.DeviceWaitIdle(d.device), "device wait idle")
}

// Destroy releases everything the device created in reverse creation order.
// It is safe on a partially initialized device and on repeated calls.
// Objects created by the caller through the device have to be destroyed
// before.
func (d *Device) Destroy() {
	if d.device != nil {
		if err := d.WaitIdle(); err != nil {
			d.log.Warn("vulkan: wait idle before destroy", "err", err)
		}
		d.destroyDepth()
		d.destroySwapchainViews()
		d.destroySwapchain()
		d.destroySyncPrimitives()
		if d.descriptorPool != vk.NullDescriptorPool {
			vk.DestroyDescriptorPool(d.device, d.descriptorPool, nil)
			d.descriptorPool = vk.NullDescriptorPool
		}
		if d.commandPool != vk.NullCommandPool {
			d.freeCommandBuffers()
			vk.DestroyCommandPool(d.device, d.commandPool, nil)
			d.commandPool = vk.NullCommandPool
		}
		vk.DestroyDevice(d.device, nil)
		d.device = nil
	}
	if d.instance != nil {
		if d.surface != vk.NullSurface {
			vk.DestroySurface(d.instance, d.surface, nil)
			d.surface = vk.NullSurface
		}
		if d.debugCallback != vk.NullDebugReportCallback {
			vk.DestroyDebugReportCallback(d.instance, d.debugCallback, nil)
			d.debugCallback = vk.NullDebugReportCallback
		}
		vk.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
	d.slots = nil
	d.pacer = nil
	d.state = Uninitialized
}
