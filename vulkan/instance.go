package vulkan

import (
	"runtime"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const (
	debugReportExtension = "VK_EXT_debug_report"
	portabilityExtension = "VK_KHR_portability_enumeration"
	portabilitySubset    = "VK_KHR_portability_subset"
	// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	enumeratePortabilityBit = vk.InstanceCreateFlags(0x00000001)
)

type queueFamilies struct {
	graphics uint32
	present  uint32
}

// sharing returns the image sharing mode for resources touched by both
// queues together with the family indices for concurrent sharing.
func (q queueFamilies) sharing() (vk.SharingMode, []uint32) {
	if q.graphics == q.present {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{q.graphics, q.present}
}

// selectQueueFamilies returns the first family with graphics support and the
// first family that can present. supportsPresent is asked for every family
// until a present family is found.
func selectQueueFamilies(props []vk.QueueFamilyProperties, supportsPresent func(i uint32) bool) (queueFamilies, bool) {
	var (
		families     queueFamilies
		foundGraphic bool
		foundPresent bool
	)
	for i := range props {
		index := uint32(i)
		props[i].Deref()
		if !foundGraphic && props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			families.graphics = index
			foundGraphic = true
		}
		if !foundPresent && supportsPresent(index) {
			families.present = index
			foundPresent = true
		}
		if foundGraphic && foundPresent {
			return families, true
		}
	}
	return families, false
}

func (d *Device) createInstance() error {
	vk.SetGetInstanceProcAddr(d.window.VulkanProcAddr())
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan: init loader")
	}

	available, err := InstanceExtensions()
	if err != nil {
		return err
	}
	wanted := safeStrings(d.window.RequiredInstanceExtensions())
	var flags vk.InstanceCreateFlags
	if runtime.GOOS == "darwin" {
		wanted = append(wanted, safeString(portabilityExtension))
		flags |= enumeratePortabilityBit
	}
	if d.config.Validation {
		wanted = append(wanted, safeString(debugReportExtension))

		layers, err := ValidationLayers()
		if err != nil {
			return err
		}
		var missing []string
		d.layers, missing = checkExisting(layers, d.config.Layers())
		if len(missing) > 0 {
			d.log.Warn("vulkan: missing validation layers", "layers", missing)
		}
	}
	extensions, missing := checkExisting(available, wanted)
	if len(missing) > 0 {
		d.log.Warn("vulkan: missing instance extensions", "extensions", missing)
	}
	d.log.Info("vulkan: enabling instance extensions", "count", len(extensions))

	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(d.config.AppName),
			PEngineName:        "dieselrhi\x00",
		},
		Flags:                   flags,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(d.layers)),
		PpEnabledLayerNames:     d.layers,
	}, nil, &d.instance)
	if isError(ret) {
		return newError(ret, "create instance")
	}
	return errors.Wrap(vk.InitInstance(d.instance), "vulkan: init instance")
}

func (d *Device) createSurface() error {
	surface, err := d.window.CreateWindowSurface(d.instance)
	if err != nil {
		return errors.Wrap(err, "vulkan: create window surface")
	}
	d.surface = surface
	return nil
}

// pickPhysicalDevice takes the first device exposing both a graphics and a
// present queue family for the surface.
func (d *Device) pickPhysicalDevice() error {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(d.instance, &count, nil)
	if isError(ret) {
		return newError(ret, "enumerate physical devices")
	}
	if count == 0 {
		return errors.WithStack(rhi.ErrNoPhysicalDevice)
	}
	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(d.instance, &count, gpus)
	if isError(ret) {
		return newError(ret, "enumerate physical devices")
	}

	for _, gpu := range gpus {
		var queueCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, nil)
		props := make([]vk.QueueFamilyProperties, queueCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, props)

		families, ok := selectQueueFamilies(props, func(i uint32) bool {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(gpu, i, d.surface, &supported)
			return supported.B()
		})
		if !ok {
			continue
		}

		d.gpu = gpu
		d.families = families
		vk.GetPhysicalDeviceProperties(gpu, &d.gpuProperties)
		d.gpuProperties.Deref()
		vk.GetPhysicalDeviceMemoryProperties(gpu, &d.memoryProperties)
		d.memoryProperties.Deref()

		d.log.Info("vulkan: selected physical device",
			"name", vk.ToString(d.gpuProperties.DeviceName[:]),
			"type", d.gpuProperties.DeviceType,
			"graphics_family", families.graphics,
			"present_family", families.present)
		return nil
	}
	return errors.Wrap(rhi.ErrNoQueueFamily, "vulkan: no device can render and present")
}

func (d *Device) createLogicalDevice() error {
	available, err := DeviceExtensions(d.gpu)
	if err != nil {
		return err
	}
	wanted := []string{safeString(vk.KhrSwapchainExtensionName)}
	if runtime.GOOS == "darwin" {
		wanted = append(wanted, safeString(portabilitySubset))
	}
	extensions, missing := checkExisting(available, wanted)
	if len(missing) > 0 {
		d.log.Warn("vulkan: missing device extensions", "extensions", missing)
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: d.families.graphics,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}
	if d.families.present != d.families.graphics {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.families.present,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	ret := vk.CreateDevice(d.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(d.layers)),
		PpEnabledLayerNames:     d.layers,
	}, nil, &d.device)
	if isError(ret) {
		return newError(ret, "create device")
	}

	vk.GetDeviceQueue(d.device, d.families.graphics, 0, &d.graphicsQueue)
	vk.GetDeviceQueue(d.device, d.families.present, 0, &d.presentQueue)
	return nil
}
