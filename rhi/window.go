package rhi

import "log/slog"

// Window is the collaborator that owns the native surface. The device only
// needs to poll it while recovering from a resize.
type Window interface {
	// FramebufferSize returns the drawable size in pixels. Either dimension is
	// zero while the window is minimized.
	FramebufferSize() (width, height int)
	// WaitEvents blocks until at least one window event is processed.
	WaitEvents()
	ShouldClose() bool
	// Resized reports and clears the framebuffer-resize signal.
	Resized() bool
}

// InitInfo carries everything a backend needs to bring a device up.
type InitInfo struct {
	Window Window
	Config Config
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (i InitInfo) Log() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}
