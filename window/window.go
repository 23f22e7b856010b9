// Package window hosts a GLFW window that a Vulkan device can render into.
// GLFW must be used from the main OS thread only.
package window

import (
	"unsafe"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Init initializes GLFW and checks for a Vulkan loader. Call Terminate when
// done.
func Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "window: init glfw")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errors.New("window: vulkan loader not found")
	}
	return nil
}

func Terminate() {
	glfw.Terminate()
}

// Window implements vulkan.Surface on top of a GLFW window without a client
// API.
type Window struct {
	handle  *glfw.Window
	resized bool
}

func New(cfg rhi.WindowConfig) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "window: create")
	}
	w := &Window{handle: handle}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized = true
	})
	return w, nil
}

func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

func (w *Window) WaitEvents() {
	glfw.WaitEvents()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// Resized reports whether the framebuffer changed size since the last call.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

func (w *Window) VulkanProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (w *Window) CreateWindowSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "window: create surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}
