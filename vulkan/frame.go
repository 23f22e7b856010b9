package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// frameSignals is the narrow set of native calls the frame loop is built
// from. The device implements it over its frame slots.
type frameSignals interface {
	waitInFlight(slot int) error
	acquireImage(slot int) (uint32, vk.Result)
	resetInFlight(slot int) error
	resetCommands(slot int) error
	submit(slot int) error
	present(slot int, image uint32) vk.Result
	// resized reports and clears the window's resize signal.
	resized() bool
}

// framePacer cycles the F frame slots and decides when the swapchain has to
// be recreated. It owns no native objects.
type framePacer struct {
	signals  frameSignals
	slots    int
	current  int
	image    uint32
	acquired bool
	// failed is set when a submit failed after the slot fence was reset.
	// That fence never signals again, so every later begin returns it.
	failed error
}

func newFramePacer(signals frameSignals, slots int) *framePacer {
	return &framePacer{signals: signals, slots: slots}
}

// begin waits for the current slot, acquires an image and readies the slot
// for recording. It returns false when the swapchain was out of date; the
// slot fence stays signaled in that case so the retry does not deadlock.
// Beginning a frame that is already open fails without touching the slot.
func (p *framePacer) begin(recreate func() error) (bool, error) {
	if p.failed != nil {
		return false, p.failed
	}
	if p.acquired {
		return false, errors.WithStack(rhi.ErrFrameAlreadyBegun)
	}
	if err := p.signals.waitInFlight(p.current); err != nil {
		return false, err
	}
	image, ret := p.signals.acquireImage(p.current)
	switch ret {
	case vk.Success, vk.Suboptimal:
	case vk.ErrorOutOfDate:
		return false, recreate()
	default:
		return false, newError(ret, "acquire next image")
	}
	if err := p.signals.resetInFlight(p.current); err != nil {
		return false, err
	}
	if err := p.signals.resetCommands(p.current); err != nil {
		return false, err
	}
	p.image = image
	p.acquired = true
	return true, nil
}

// end submits and presents the current slot, then advances to the next one.
// A stale swapchain is recreated after the slot advanced.
func (p *framePacer) end(recreate func() error) error {
	if !p.acquired {
		return errors.WithStack(rhi.ErrFrameNotBegun)
	}
	p.acquired = false
	if err := p.signals.submit(p.current); err != nil {
		p.failed = errors.WithMessagef(err, "frame slot %d unusable", p.current)
		return p.failed
	}
	ret := p.signals.present(p.current, p.image)
	resized := p.signals.resized()
	p.current = (p.current + 1) % p.slots

	switch {
	case ret == vk.ErrorOutOfDate, ret == vk.Suboptimal, resized:
		return recreate()
	case isError(ret):
		return newError(ret, "queue present")
	}
	return nil
}

// slotSignals implements frameSignals for a device.
type slotSignals struct {
	d *Device
}

func (s slotSignals) waitInFlight(slot int) error {
	fences := []vk.Fence{s.d.slots[slot].inFlight}
	return newError(vk.WaitForFences(s.d.device, 1, fences, vk.True, vk.MaxUint64), "wait for fences")
}

func (s slotSignals) acquireImage(slot int) (uint32, vk.Result) {
	var index uint32
	ret := vk.AcquireNextImage(s.d.device, s.d.swapchain.handle, vk.MaxUint64,
		s.d.slots[slot].imageAvailable, vk.NullFence, &index)
	return index, ret
}

func (s slotSignals) resetInFlight(slot int) error {
	fences := []vk.Fence{s.d.slots[slot].inFlight}
	return newError(vk.ResetFences(s.d.device, 1, fences), "reset fences")
}

func (s slotSignals) resetCommands(slot int) error {
	ret := vk.ResetCommandBuffer(s.d.slots[slot].commands.Resource(), 0)
	return newError(ret, "reset command buffer")
}

func (s slotSignals) submit(slot int) error {
	fs := &s.d.slots[slot]
	ret := vk.QueueSubmit(s.d.graphicsQueue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{fs.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{fs.commands.Resource()},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{fs.renderFinished},
	}}, fs.inFlight)
	return newError(ret, "queue submit")
}

func (s slotSignals) present(slot int, image uint32) vk.Result {
	return vk.QueuePresent(s.d.presentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.d.slots[slot].renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.d.swapchain.handle},
		PImageIndices:      []uint32{image},
	})
}

func (s slotSignals) resized() bool {
	return s.d.window.Resized()
}

func (d *Device) BeforePass() (bool, error) {
	return d.pacer.begin(d.recreate)
}

// SubmitRendering submits and presents the frame opened by BeforePass. A
// failed queue submit is fatal for the device: the slot fence was already
// reset, so every later BeforePass returns the same error.
func (d *Device) SubmitRendering() error {
	return d.pacer.end(d.recreate)
}

func (d *Device) MaxFramesInFlight() int {
	return len(d.slots)
}

func (d *Device) CurrentFrameIndex() int {
	return d.pacer.current
}

func (d *Device) CurrentSwapchainImageIndex() uint32 {
	return d.pacer.image
}

func (d *Device) CurrentCommandBuffer() rhi.CommandBuffer {
	return d.slots[d.pacer.current].commands
}

func (d *Device) CommandBuffers() []rhi.CommandBuffer {
	out := make([]rhi.CommandBuffer, len(d.slots))
	for i := range d.slots {
		out[i] = d.slots[i].commands
	}
	return out
}
