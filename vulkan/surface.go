package vulkan

import (
	"unsafe"

	"github.com/andewx/dieselrhi/rhi"
	vk "github.com/vulkan-go/vulkan"
)

// Surface is a window that can host a Vulkan presentation surface.
type Surface interface {
	rhi.Window
	// RequiredInstanceExtensions lists the instance extensions the window
	// system needs to create a surface.
	RequiredInstanceExtensions() []string
	// VulkanProcAddr returns vkGetInstanceProcAddr as loaded by the window
	// system.
	VulkanProcAddr() unsafe.Pointer
	CreateWindowSurface(instance vk.Instance) (vk.Surface, error)
}
