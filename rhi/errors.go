package rhi

import "github.com/pkg/errors"

var (
	// ErrUnsupportedTransition is returned for any image layout transition
	// other than undefined->transfer-dst and transfer-dst->shader-read-only.
	ErrUnsupportedTransition = errors.New("rhi: unsupported layout transition")
	ErrNoMemoryType          = errors.New("rhi: failed to find suitable memory type")
	ErrNoPhysicalDevice      = errors.New("rhi: failed to find a suitable GPU")
	ErrNoQueueFamily         = errors.New("rhi: no graphics and present queue family")
	ErrNoDepthFormat         = errors.New("rhi: failed to find supported depth format")
	ErrFrameNotBegun         = errors.New("rhi: frame submitted without BeforePass")
	ErrFrameAlreadyBegun     = errors.New("rhi: BeforePass called twice without SubmitRendering")
	// ErrForeignHandle is returned when a handle created by another backend
	// (or a nil handle) is passed where a live handle is required.
	ErrForeignHandle = errors.New("rhi: handle does not belong to this device")
)
